package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Job output modes for the stubbed job body.
const (
	JobOutputStatic = "static"
	JobOutputEcho   = "echo"
)

type Config struct {
	Port string

	AuctionHouseURL string // default auction house to poll and bid against
	BaseURL         string // this service's advertised base URL
	Name            string // bidder name sent with every bid

	// SupportedJobTypes restricts which auctions are bid on.
	// An empty set means every job type is supported.
	SupportedJobTypes map[string]struct{}

	JobOutputMode string // static|echo
	APIEnvelope   bool   // wrap outbound bodies in {version:1, data:{...}}

	PollInterval   time.Duration
	PollDiscovery  bool // also poll auction houses from the discovery registry
	VerifyAuctions bool // re-fetch each auction's detail before emitting

	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func Load() Config {
	return Config{
		Port:              getenv("PORT", "8091"),
		AuctionHouseURL:   strings.TrimSpace(getenv("AUCTION_HOUSE_BASE_URL", "http://localhost:8090")),
		BaseURL:           strings.TrimSpace(getenv("BIDDER_BASE_URL", "http://localhost:8091")),
		Name:              getenv("BIDDER_NAME", "auction-bidder"),
		SupportedJobTypes: getenvSet("SUPPORTED_JOB_TYPES", "testJob"),
		JobOutputMode:     getenv("JOB_OUTPUT_MODE", JobOutputStatic),
		APIEnvelope:       getenvBool("API_ENVELOPE", false),
		PollInterval:      time.Duration(getenvInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		PollDiscovery:     getenvBool("POLL_DISCOVERY", false),
		VerifyAuctions:    getenvBool("VERIFY_AUCTIONS", false),
		MQTTEnabled:       getenvBool("MQTT_ENABLED", true),
		MQTTBroker:        getenv("MQTT_BROKER", "broker.hivemq.com"),
		MQTTPort:          getenvInt("MQTT_PORT", 1883),
		MQTTTopic:         getenv("MQTT_TOPIC", "ch/unisg/pitas/auctions/#"),
		MQTTUsername:      os.Getenv("MQTT_USERNAME"),
		MQTTPassword:      os.Getenv("MQTT_PASSWORD"),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

// getenvSet parses a comma-separated env var into a set. Setting the
// variable to an empty or blank value yields an empty set.
func getenvSet(key, def string) map[string]struct{} {
	raw, ok := os.LookupEnv(key)
	if !ok {
		raw = def
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return set
}
