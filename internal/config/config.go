package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every externally supplied setting in one place. It is built
// once in main and passed by reference into the components that need it, so
// no pipeline code reads the process environment on its own.
type Config struct {
	Port           string
	DatabaseDSN    string
	FrontendOrigin string
	JWTSecret      []byte

	// UploadDir is the durable storage root for portrait/signature uploads.
	// GeneratedDir lives underneath it so generated PDFs are served from the
	// same public prefix.
	UploadDir    string
	GeneratedDir string
	PublicPrefix string

	// MaxUploadBytes caps the multipart body size accepted by the HTTP layer.
	MaxUploadBytes int64

	// GenerateTimeout bounds a single card generation request end to end.
	GenerateTimeout time.Duration
}

// Load reads configs/.env (if present) and the process environment, applying
// development defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	dbSslMode := getEnv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal("FATAL: JWT_SECRET environment variable is required in release mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	uploadDir := getEnv("UPLOAD_DIR", "uploads")

	maxUpload := int64(10 << 20)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("Invalid MAX_UPLOAD_BYTES value: %v", err)
		}
		maxUpload = parsed
	}

	timeout := 30 * time.Second
	if v := os.Getenv("GENERATE_TIMEOUT_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid GENERATE_TIMEOUT_SECONDS value: %v", err)
		}
		timeout = time.Duration(parsed) * time.Second
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseDSN:     dsn,
		FrontendOrigin:  getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		JWTSecret:       []byte(secret),
		UploadDir:       uploadDir,
		GeneratedDir:    filepath.Join(uploadDir, "generated"),
		PublicPrefix:    "/uploads",
		MaxUploadBytes:  maxUpload,
		GenerateTimeout: timeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
