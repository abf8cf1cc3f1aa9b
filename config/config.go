package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Ledger policy
	TreasuryAccount     string
	MaxTokenSupply      uint64
	InactivityWindow    time.Duration
	DecayPercentage     uint64
	PlatformFeePermille uint64
	VoteReward          uint64
	CertificateBonus    uint64
	RewardRateNum       uint64
	RewardRateDen       uint64
	BuyerSharePct       uint64
	OrganizerSharePct   uint64
	DiscountPercentage  uint64

	// Settlement
	SettlementLockTTL time.Duration

	// Payout gateway
	PayoutBaseURL string
	PayoutHMACKey string

	// Rate limiting
	RateLimitWindow   time.Duration
	RateLimitRequests int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Ledger policy
		TreasuryAccount:     getEnv("TREASURY_ACCOUNT", "dao-treasury"),
		MaxTokenSupply:      getEnvAsUint("MAX_TOKEN_SUPPLY", 1_000_000_000),
		InactivityWindow:    getEnvAsDuration("INACTIVITY_WINDOW", "8760h"),
		DecayPercentage:     getEnvAsUint("DECAY_PERCENTAGE", 10),
		PlatformFeePermille: getEnvAsUint("PLATFORM_FEE_PERMILLE", 25),
		VoteReward:          getEnvAsUint("VOTE_REWARD", 5),
		CertificateBonus:    getEnvAsUint("CERTIFICATE_BONUS", 10),
		RewardRateNum:       getEnvAsUint("REWARD_RATE_NUM", 1),
		RewardRateDen:       getEnvAsUint("REWARD_RATE_DEN", 10),
		BuyerSharePct:       getEnvAsUint("BUYER_SHARE_PCT", 50),
		OrganizerSharePct:   getEnvAsUint("ORGANIZER_SHARE_PCT", 30),
		DiscountPercentage:  getEnvAsUint("DISCOUNT_PERCENTAGE", 10),

		// Settlement
		SettlementLockTTL: getEnvAsDuration("SETTLEMENT_LOCK_TTL", "30s"),

		// Payout gateway
		PayoutBaseURL: getEnv("PAYOUT_BASE_URL", ""),
		PayoutHMACKey: getEnv("PAYOUT_HMAC_KEY", ""),

		// Rate limiting
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 30),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

// IsDevelopment reports whether the app runs in the development
// environment (test-only routes get registered).
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
