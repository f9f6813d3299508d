package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	MigrationsPath string

	// Physical page and printer calibration, all in millimeters
	ChequeWidthMM  float64
	ChequeHeightMM float64
	PrintOffsetXMM float64
	PrintOffsetYMM float64
	DigitSpacingMM float64

	// Printing
	PrinterName   string
	PrintCommand  string // "lp" submits to CUPS; empty selects the spool directory
	PrintSpoolDir string

	AssetDir          string
	ActiveSignatureID string

	// Optional cross-process reservation lock
	RedisAddress   string
	RedisPassword  string
	ReserveLockTTL time.Duration

	BatchRateLimit string // ulule formatted rate, e.g. "10-M"

	CORSAllowedOrigins []string // empty in production means same-origin only
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CHEQUE_WIDTH_MM", 206.0)
	viper.SetDefault("CHEQUE_HEIGHT_MM", 98.0)
	viper.SetDefault("PRINT_OFFSET_X_MM", 0.0)
	viper.SetDefault("PRINT_OFFSET_Y_MM", 0.0)
	viper.SetDefault("DIGIT_SPACING_MM", 5.5)
	viper.SetDefault("PRINTER_NAME", "")
	viper.SetDefault("PRINT_COMMAND", "lp")
	viper.SetDefault("PRINT_SPOOL_DIR", "spool")
	viper.SetDefault("ASSET_DIR", "assets")
	viper.SetDefault("ACTIVE_SIGNATURE_ID", "")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("RESERVE_LOCK_TTL", "10s")
	viper.SetDefault("BATCH_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.ChequeWidthMM = viper.GetFloat64("CHEQUE_WIDTH_MM")
	cfg.ChequeHeightMM = viper.GetFloat64("CHEQUE_HEIGHT_MM")
	if cfg.ChequeWidthMM <= 0 || cfg.ChequeHeightMM <= 0 {
		log.Printf("Warning: invalid cheque size %.2fx%.2fmm. Defaulting to 206x98mm.\n", cfg.ChequeWidthMM, cfg.ChequeHeightMM)
		cfg.ChequeWidthMM, cfg.ChequeHeightMM = 206, 98
	}

	cfg.DigitSpacingMM = viper.GetFloat64("DIGIT_SPACING_MM")
	if cfg.DigitSpacingMM <= 0 {
		cfg.DigitSpacingMM = 5.5
		log.Printf("Warning: DIGIT_SPACING_MM must be positive. Defaulting to %.1f.\n", cfg.DigitSpacingMM)
	}

	lockTTLStr := viper.GetString("RESERVE_LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 10 * time.Second
		log.Printf("Warning: Invalid value for RESERVE_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL.String())
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.PrintOffsetXMM = viper.GetFloat64("PRINT_OFFSET_X_MM")
	cfg.PrintOffsetYMM = viper.GetFloat64("PRINT_OFFSET_Y_MM")
	cfg.PrinterName = viper.GetString("PRINTER_NAME")
	cfg.PrintCommand = viper.GetString("PRINT_COMMAND")
	cfg.PrintSpoolDir = viper.GetString("PRINT_SPOOL_DIR")
	cfg.AssetDir = viper.GetString("ASSET_DIR")
	cfg.ActiveSignatureID = viper.GetString("ACTIVE_SIGNATURE_ID")
	cfg.RedisAddress = viper.GetString("REDIS_ADDRESS")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.ReserveLockTTL = lockTTL
	cfg.BatchRateLimit = viper.GetString("BATCH_RATE_LIMIT")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
