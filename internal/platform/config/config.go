package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	TokenTTL      time.Duration
	AdminAPIToken string
	OTelEnabled   bool

	DatabaseURL     string
	DataDir         string
	Redis           RedisConfig
	KafkaBrokers    string
	KafkaAuditTopic string

	Registry Registry
}

// Registry holds the initial registry settings and seed data.
type Registry struct {
	ContractOwner   string
	MintFee         uint64
	MaxEditionLimit uint64
	Issuers         []string
	InitialBalances map[string]uint64
	BlockInterval   time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	DefaultContractOwner   = "ST1TEST"
	DefaultMintFee         = 1000
	DefaultMaxEditionLimit = 100
	DefaultBlockInterval   = 10 * time.Second
	DefaultAuditTopic      = "tourmint.audit"
)

// FromEnv builds the Server config from environment variables so main stays lean.
// Malformed numeric values are reported rather than silently defaulted.
func FromEnv() (Server, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Server{
		Addr:          get("TOURMINT_ADDR", ":8080"),
		Environment:   get("ENVIRONMENT", "development"),
		LogLevel:      get("LOG_LEVEL", "info"),
		JWTSigningKey: get("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminAPIToken: getenv("ADMIN_API_TOKEN"),
		OTelEnabled:   getenv("OTEL_ENABLED") == "true",

		DatabaseURL:     getenv("DATABASE_URL"),
		DataDir:         getenv("DATA_DIR"),
		KafkaBrokers:    getenv("KAFKA_BROKERS"),
		KafkaAuditTopic: get("KAFKA_AUDIT_TOPIC", DefaultAuditTopic),
		Redis: RedisConfig{
			URL:          getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	var err error
	if cfg.TokenTTL, err = parseDuration(get("TOKEN_TTL", "15m"), "TOKEN_TTL"); err != nil {
		return Server{}, err
	}

	reg := Registry{
		ContractOwner: get("CONTRACT_OWNER", DefaultContractOwner),
		Issuers:       splitList(getenv("ISSUERS")),
	}
	if reg.MintFee, err = parsePositive(get("MINT_FEE", strconv.Itoa(DefaultMintFee)), "MINT_FEE"); err != nil {
		return Server{}, err
	}
	if reg.MaxEditionLimit, err = parsePositive(get("MAX_EDITION_LIMIT", strconv.Itoa(DefaultMaxEditionLimit)), "MAX_EDITION_LIMIT"); err != nil {
		return Server{}, err
	}
	if reg.BlockInterval, err = parseDuration(get("BLOCK_INTERVAL", DefaultBlockInterval.String()), "BLOCK_INTERVAL"); err != nil {
		return Server{}, err
	}
	if reg.InitialBalances, err = parseBalances(getenv("INITIAL_BALANCES")); err != nil {
		return Server{}, err
	}
	cfg.Registry = reg

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBalances reads "ST1A=5000,ST1B=20" into a map.
func parseBalances(raw string) (map[string]uint64, error) {
	balances := make(map[string]uint64)
	for _, entry := range splitList(raw) {
		identity, amount, ok := strings.Cut(entry, "=")
		identity = strings.TrimSpace(identity)
		if !ok || identity == "" {
			return nil, fmt.Errorf("INITIAL_BALANCES: malformed entry %q", entry)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("INITIAL_BALANCES: invalid amount for %s: %w", identity, err)
		}
		balances[identity] = n
	}
	return balances, nil
}

func parsePositive(raw, key string) (uint64, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%s must be greater than zero", key)
	}
	return n, nil
}

func parseDuration(raw, key string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
