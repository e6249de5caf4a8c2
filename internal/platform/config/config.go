// Package config builds service configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PayoutPolicy selects where sale proceeds are forwarded.
type PayoutPolicy string

const (
	// PayoutDirectToSeller forwards proceeds to the listing's recorded
	// seller. Default.
	PayoutDirectToSeller PayoutPolicy = "seller"
	// PayoutTreasury routes proceeds through the configured treasury
	// account.
	PayoutTreasury PayoutPolicy = "treasury"
)

// PaymentPolicy selects how a buyer's payment is matched against the price.
type PaymentPolicy string

const (
	// PaymentExact requires payment to equal the listed price. Default; the
	// minimum-match variant strands overpayment with the payout destination.
	PaymentExact PaymentPolicy = "exact"
	// PaymentMinimum accepts any payment at or above the listed price.
	PaymentMinimum PaymentPolicy = "minimum"
)

// Server captures the full service configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	JWTTTL        time.Duration

	// DatabaseURL selects the postgres stores when set; empty means the
	// in-memory stores.
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig

	// Administrator is the initial privileged account. Also used to seed the
	// first account credential when bootstrap secrets are configured.
	Administrator string
	AdminSecret   string

	// SupplyLimit is the initial maximum issuable supply. It may only be
	// raised afterwards, never lowered.
	SupplyLimit uint64
	BaseURI     string
	ContractURI string
	RoyaltyBps  uint32
	Treasury    string

	PayoutPolicy  PayoutPolicy
	PaymentPolicy PaymentPolicy

	AssetCacheTTL time.Duration
}

// RedisConfig configures the asset read cache. Empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures lifecycle event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from HANGAR_* environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:          envOr("HANGAR_ADDR", ":8080"),
		LogLevel:      envOr("HANGAR_LOG_LEVEL", "info"),
		JWTSigningKey: envOr("HANGAR_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("HANGAR_JWT_ISSUER", "hangar"),
		JWTTTL:        envDuration("HANGAR_JWT_TTL", time.Hour),
		DatabaseURL:   os.Getenv("HANGAR_DATABASE_URL"),
		Administrator: envOr("HANGAR_ADMIN_ACCOUNT", "admin"),
		AdminSecret:   os.Getenv("HANGAR_ADMIN_SECRET"),
		SupplyLimit:   envUint("HANGAR_SUPPLY_LIMIT", 10000),
		BaseURI:       envOr("HANGAR_BASE_URI", "ipfs://"),
		ContractURI:   os.Getenv("HANGAR_CONTRACT_URI"),
		RoyaltyBps:    uint32(envUint("HANGAR_ROYALTY_BPS", 0)),
		Treasury:      os.Getenv("HANGAR_TREASURY_ACCOUNT"),
		PayoutPolicy:  PayoutPolicy(envOr("HANGAR_PAYOUT_POLICY", string(PayoutDirectToSeller))),
		PaymentPolicy: PaymentPolicy(envOr("HANGAR_PAYMENT_POLICY", string(PaymentExact))),
		AssetCacheTTL: envDuration("HANGAR_ASSET_CACHE_TTL", 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("HANGAR_REDIS_URL"),
		PoolSize:     int(envUint("HANGAR_REDIS_POOL_SIZE", 10)),
		MinIdleConns: int(envUint("HANGAR_REDIS_MIN_IDLE", 2)),
		DialTimeout:  envDuration("HANGAR_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDuration("HANGAR_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDuration("HANGAR_REDIS_WRITE_TIMEOUT", 3*time.Second),
	}

	if brokers := os.Getenv("HANGAR_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka = KafkaConfig{
			Brokers: splitAndTrim(brokers),
			Topic:   envOr("HANGAR_KAFKA_TOPIC", "hangar.asset-events"),
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
