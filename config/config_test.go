package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchDonationFlowTimings(t *testing.T) {
	viper.Reset()
	setDefaults()

	var cfg Config
	require.NoError(t, viper.Unmarshal(&cfg))

	assert.Equal(t, 3*time.Second, cfg.ProcessingDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.SuccessDelay())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 10, cfg.MinDonation)
	assert.Equal(t, "firestore", cfg.StoreBackend)
	assert.Equal(t, "campusfund@upi", cfg.DefaultUPIID)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	viper.Reset()
	viper.AutomaticEnv()
	setDefaults()
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PROCESSING_DELAY_MS", "50")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	var cfg Config
	require.NoError(t, viper.Unmarshal(&cfg))

	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 50*time.Millisecond, cfg.ProcessingDelay())
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}
