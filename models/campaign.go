package models

import "time"

// CampaignCategory groups fundraising campaigns on the feed.
type CampaignCategory string

const (
	CategoryEducation   CampaignCategory = "education"
	CategoryMedical     CampaignCategory = "medical"
	CategoryEmergency   CampaignCategory = "emergency"
	CategoryCommunity   CampaignCategory = "community"
	CategoryEnvironment CampaignCategory = "environment"
	CategoryOther       CampaignCategory = "other"
)

func (c CampaignCategory) Valid() bool {
	switch c {
	case CategoryEducation, CategoryMedical, CategoryEmergency,
		CategoryCommunity, CategoryEnvironment, CategoryOther:
		return true
	}
	return false
}

// Campaign is a fundraising initiative stored in the campaigns collection.
// Raised and Donations only move through the ledger.
type Campaign struct {
	ID           string           `json:"id" firestore:"-" bson:"_id"`
	Title        string           `json:"title" firestore:"title" bson:"title"`
	Description  string           `json:"description" firestore:"description" bson:"description"`
	Target       int64            `json:"target" firestore:"target" bson:"target"`
	Raised       int64            `json:"raised" firestore:"raised" bson:"raised"`
	Category     CampaignCategory `json:"category" firestore:"category" bson:"category"`
	CreatedBy    string           `json:"createdBy" firestore:"createdBy" bson:"createdBy"`
	CreatorName  string           `json:"creatorName" firestore:"creatorName" bson:"creatorName"`
	CreatorPhoto string           `json:"creatorPhoto,omitempty" firestore:"creatorPhoto,omitempty" bson:"creatorPhoto,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	UPIID        string           `json:"upiId,omitempty" firestore:"upiId,omitempty" bson:"upiId,omitempty"`
	CreatedAt    time.Time        `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	Likes        []string         `json:"likes" firestore:"likes" bson:"likes"`
	Donations    int64            `json:"donations" firestore:"donations" bson:"donations"`

	// Older documents carry goalAmount and raisedAmount instead.
	GoalAmount   int64 `json:"-" firestore:"goalAmount,omitempty" bson:"goalAmount,omitempty"`
	RaisedAmount int64 `json:"-" firestore:"raisedAmount,omitempty" bson:"raisedAmount,omitempty"`
}

// Normalize folds the legacy amount fields into Target and Raised.
func (c *Campaign) Normalize() {
	if c.Target == 0 {
		c.Target = c.GoalAmount
	}
	if c.Raised == 0 {
		c.Raised = c.RaisedAmount
	}
	c.GoalAmount, c.RaisedAmount = 0, 0
}

// LikedBy reports whether userID is in the likers set.
func (c *Campaign) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateCampaignRequest is the body of POST /api/campaigns.
type CreateCampaignRequest struct {
	Title       string           `json:"title" binding:"required,min=3,max=120"`
	Description string           `json:"description" binding:"required,max=5000"`
	Target      int64            `json:"target" binding:"required,gt=0"`
	Category    CampaignCategory `json:"category" binding:"required"`
	UPIID       string           `json:"upiId,omitempty"`
}
