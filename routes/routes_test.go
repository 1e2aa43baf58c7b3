package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	campaignRepo "campusconnect/database/repository/campaign"
	sessionRepo "campusconnect/database/repository/session"
	"campusconnect/handlers"
	"campusconnect/models"
	"campusconnect/services/campaign"
	"campusconnect/services/donation"
	"campusconnect/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mobileUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36"

type tokenTable map[string]*auth.Token

func (t tokenTable) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := t[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("unknown token")
}

type snapshotTable map[string]models.PaymentSessionSnapshot

func (s snapshotTable) Load(_ context.Context, id string) (*models.PaymentSessionSnapshot, error) {
	snap, ok := s[id]
	if !ok {
		return nil, sessionRepo.ErrSnapshotNotFound
	}
	return &snap, nil
}

type testServer struct {
	router *gin.Engine
	store  *campaignRepo.MemoryStore
}

func newTestServer(t *testing.T, snapshots handlers.SnapshotLoader) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := campaignRepo.NewMemoryStore()
	campaignSvc, err := campaign.NewDefaultCampaignService(store, nil, nil)
	require.NoError(t, err)
	manager, err := donation.NewManager(donation.ManagerConfig{
		Campaigns: store,
		Ledger:    store,
		Options: donation.Options{
			ProcessingDelay: 5 * time.Millisecond,
			SuccessDelay:    5 * time.Millisecond,
			DefaultPayee:    donation.Payee{Address: "campusfund@upi", Name: "Campus Connect"},
		},
	})
	require.NoError(t, err)

	verifier := tokenTable{
		"organizer-token": {UID: "organizer-1", Claims: map[string]interface{}{"name": "Asha"}},
		"donor-token":     {UID: "donor-1", Claims: map[string]interface{}{"name": "Ravi Kumar"}},
	}
	hb := handlers.NewHandlerBundle(verifier, 1000,
		handlers.NewCampaignHandler(campaignSvc),
		handlers.NewDonationHandler(manager, snapshots),
	)

	r := gin.New()
	RegisterRoutes(r, hb)
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", mobileUA)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// poll reads a session without touching t, since Eventually runs the
// condition on its own goroutine.
func (s *testServer) poll(path string) models.PaymentSessionSnapshot {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer donor-token")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var snap models.PaymentSessionSnapshot
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	return snap
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (s *testServer) createCampaign(t *testing.T) models.Campaign {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/campaigns", "organizer-token", models.CreateCampaignRequest{
		Title:       "Hostel water purifier",
		Description: "Clean drinking water for Block C",
		Target:      50000,
		Category:    models.CategoryCommunity,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Campaign](t, w)
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/campaigns", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/me", "bogus", nil).Code)

	w := s.do(t, http.MethodGet, "/api/me", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "donor-1", decode[models.Identity](t, w).UID)
}

func TestCampaignEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	c := s.createCampaign(t)
	assert.Equal(t, "Asha", c.CreatorName)

	w := s.do(t, http.MethodPost, "/api/campaigns", "organizer-token", map[string]interface{}{
		"title": "Bad", "description": "x", "target": 100, "category": "sports",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/campaigns/"+c.ID, "donor-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/campaigns/missing", "donor-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/campaigns/"+c.ID+"/like", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, campaign.LikeResult{Liked: true, Likes: 1}, decode[campaign.LikeResult](t, w))

	w = s.do(t, http.MethodGet, "/api/campaigns", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Campaigns []models.Campaign `json:"campaigns"`
	}](t, w)
	assert.Len(t, list.Campaigns, 1)

	w = s.do(t, http.MethodPost, "/api/campaigns/"+c.ID+"/image", "organizer-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMalformedCampaignBodyHidesValidatorOutput(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/campaigns", "organizer-token", map[string]interface{}{
		"description": "no title here", "target": 100, "category": "community",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[utils.ErrorResponse](t, w)
	assert.Equal(t, "Invalid campaign details", body.Message)
	assert.Empty(t, body.Details)
	assert.NotContains(t, w.Body.String(), "Field validation")
	assert.NotContains(t, w.Body.String(), "CreateCampaignRequest")
}

func TestDonationDialogOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	c := s.createCampaign(t)

	w := s.do(t, http.MethodPost, "/api/donations/sessions", "donor-token", models.OpenSessionRequest{CampaignID: c.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	snap := decode[models.PaymentSessionSnapshot](t, w)
	assert.Equal(t, models.StepAmountEntry, snap.Step)
	base := "/api/donations/sessions/" + snap.SessionID

	w = s.do(t, http.MethodPost, base+"/donate", "donor-token", map[string]interface{}{"amount": "9"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "₹10")

	w = s.do(t, http.MethodPost, base+"/confirm", "donor-token", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, base, "organizer-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, base+"/donate", "donor-token", map[string]interface{}{"amount": 1000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap = decode[models.PaymentSessionSnapshot](t, w)
	assert.Equal(t, models.StepProcessing, snap.Step)
	assert.Equal(t, models.HandoffNavigate, snap.Handoff)
	assert.Contains(t, snap.PaymentLink, "upi://pay?pa=campusfund@upi&pn=Campus%20Connect&am=1000&cu=INR&tn=Donation-")

	require.Eventually(t, func() bool {
		return s.poll(base).Step == models.StepVerification
	}, time.Second, 5*time.Millisecond)

	w = s.do(t, http.MethodPost, base+"/confirm", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StepSuccess, decode[models.PaymentSessionSnapshot](t, w).Step)

	require.Eventually(t, func() bool {
		return s.poll(base).Committed
	}, time.Second, 5*time.Millisecond)

	got, err := s.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Raised)
	assert.Equal(t, int64(1), got.Donations)

	w = s.do(t, http.MethodPost, base+"/retry", "donor-token", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/campaigns/"+c.ID+"/donations", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[struct {
		Donations []models.Donation `json:"donations"`
	}](t, w)
	require.Len(t, history.Donations, 1)
	assert.Equal(t, "Ravi Kumar", history.Donations[0].DonorName)
}

func TestCloseAndUnknownSession(t *testing.T) {
	s := newTestServer(t, nil)
	c := s.createCampaign(t)

	w := s.do(t, http.MethodPost, "/api/donations/sessions", "donor-token", models.OpenSessionRequest{CampaignID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/donations/sessions", "donor-token", models.OpenSessionRequest{CampaignID: c.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.PaymentSessionSnapshot](t, w).SessionID

	w = s.do(t, http.MethodDelete, "/api/donations/sessions/"+id, "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.PaymentSessionSnapshot](t, w).Closed)

	w = s.do(t, http.MethodPost, "/api/donations/sessions/"+id+"/donate", "donor-token", map[string]interface{}{"amount": 500})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/donations/sessions/nope", "donor-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionFallsBackToMirroredSnapshot(t *testing.T) {
	mirrored := snapshotTable{
		"elsewhere": {SessionID: "elsewhere", DonorID: "donor-1", Step: models.StepSuccess, Committed: true, Closed: true},
	}
	s := newTestServer(t, mirrored)

	w := s.do(t, http.MethodGet, "/api/donations/sessions/elsewhere", "donor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.PaymentSessionSnapshot](t, w).Committed)

	w = s.do(t, http.MethodGet, "/api/donations/sessions/elsewhere", "organizer-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/donations/sessions/missing", "donor-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
