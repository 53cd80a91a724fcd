package config

import (
	"os"
	"strconv"
	"time"

	"trustlend.backend/internal/domain/entities"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Custody     CustodyConfig
	Attestation AttestationConfig
	Security    SecurityConfig
	Lending     LendingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// CustodyConfig selects the collateral custody backend. Mode "ledger" keeps
// balances in-process; mode "evm" releases funds through the escrow contract.
type CustodyConfig struct {
	Mode            string
	RPCURL          string
	ContractAddress string
}

// AttestationConfig holds the historical attestation settings
type AttestationConfig struct {
	VerificationKey string
	ScanInterval    time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	KeyStoreEncryptionKey string
}

// LendingConfig is the boot-time lending policy, amounts in base units.
type LendingConfig struct {
	MinLoanAmount       int64
	MaxLoanAmount       int64
	MaxLoanDuration     int64
	GracePeriodDays     int64
	DailyLateFeePercent int64
	PlatformFeePercent  int64
}

// Policy converts the boot configuration into the runtime lending policy.
func (c LendingConfig) Policy() entities.LendingPolicy {
	return entities.LendingPolicy{
		MinLoanAmount:       c.MinLoanAmount,
		MaxLoanAmount:       c.MaxLoanAmount,
		MaxLoanDuration:     c.MaxLoanDuration,
		GracePeriodDays:     c.GracePeriodDays,
		DailyLateFeePercent: c.DailyLateFeePercent,
		PlatformFeePercent:  c.PlatformFeePercent,
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "trustlend"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Custody: CustodyConfig{
			Mode:            getEnv("CUSTODY_MODE", "ledger"),
			RPCURL:          getEnv("CUSTODY_RPC_URL", "https://sepolia.base.org"),
			ContractAddress: getEnv("CUSTODY_CONTRACT_ADDRESS", ""),
		},
		Attestation: AttestationConfig{
			VerificationKey: getEnv("ATTESTATION_VERIFICATION_KEY", ""),
			ScanInterval:    getEnvAsDuration("OVERDUE_SCAN_INTERVAL", time.Minute),
		},
		Security: SecurityConfig{
			KeyStoreEncryptionKey: getEnv("KEY_STORE_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Lending: LendingConfig{
			MinLoanAmount:       getEnvAsInt64("MIN_LOAN_AMOUNT", 100),
			MaxLoanAmount:       getEnvAsInt64("MAX_LOAN_AMOUNT", 1_000_000),
			MaxLoanDuration:     getEnvAsInt64("MAX_LOAN_DURATION", 365*24*60*60),
			GracePeriodDays:     getEnvAsInt64("GRACE_PERIOD_DAYS", 3),
			DailyLateFeePercent: getEnvAsInt64("DAILY_LATE_FEE_PERCENT", 1),
			PlatformFeePercent:  getEnvAsInt64("PLATFORM_FEE_PERCENT", 2),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
