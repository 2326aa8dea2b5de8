package config

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	check.Equal(t, "8091", cfg.Port)
	check.Equal(t, "http://localhost:8090", cfg.AuctionHouseURL)
	check.Equal(t, "auction-bidder", cfg.Name)
	check.Equal(t, map[string]struct{}{"testJob": {}}, cfg.SupportedJobTypes)
	check.Equal(t, JobOutputStatic, cfg.JobOutputMode)
	check.Equal(t, 5*time.Second, cfg.PollInterval)
	check.True(t, cfg.MQTTEnabled)
	check.Equal(t, 1883, cfg.MQTTPort)
	check.False(t, cfg.APIEnvelope)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUCTION_HOUSE_BASE_URL", " http://house:8090 ")
	t.Setenv("BIDDER_NAME", "bidder-7")
	t.Setenv("SUPPORTED_JOB_TYPES", "testJob, imageRendering ,")
	t.Setenv("POLL_INTERVAL_SECONDS", "30")
	t.Setenv("MQTT_ENABLED", "false")
	t.Setenv("API_ENVELOPE", "true")

	cfg := Load()

	check.Equal(t, "9000", cfg.Port)
	check.Equal(t, "http://house:8090", cfg.AuctionHouseURL)
	check.Equal(t, "bidder-7", cfg.Name)
	check.Equal(t, map[string]struct{}{"testJob": {}, "imageRendering": {}}, cfg.SupportedJobTypes)
	check.Equal(t, 30*time.Second, cfg.PollInterval)
	check.False(t, cfg.MQTTEnabled)
	check.True(t, cfg.APIEnvelope)
}

func TestSupportedJobTypesBlankMeansAll(t *testing.T) {
	t.Setenv("SUPPORTED_JOB_TYPES", "  ")

	cfg := Load()
	check.Equal(t, 0, len(cfg.SupportedJobTypes))
}

func TestBadNumbersFallBack(t *testing.T) {
	t.Setenv("POLL_INTERVAL_SECONDS", "not-a-number")
	t.Setenv("MQTT_PORT", "also-not")
	t.Setenv("MQTT_ENABLED", "maybe")

	cfg := Load()
	check.Equal(t, 5*time.Second, cfg.PollInterval)
	check.Equal(t, 1883, cfg.MQTTPort)
	check.True(t, cfg.MQTTEnabled)
}
