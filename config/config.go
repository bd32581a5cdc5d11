package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// loadEnv loads the .env file once. Missing file is fine, the process
// environment still applies.
func loadEnv() {
	envOnce.Do(func() {
		path := os.Getenv("ENV_FILE")
		if path == "" {
			path = ".env"
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: %s not found, falling back to environment variables", path)
		}
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

type ServerConfig struct {
	ListenAddr string
	// MaxUploadMB caps the request body for document uploads.
	MaxUploadMB int
	// DefaultPagesPerPart is used when a split request omits the part size.
	DefaultPagesPerPart int
}

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()
		serverConfig = &ServerConfig{
			ListenAddr:          getEnv("LISTEN_ADDR", ":8080"),
			MaxUploadMB:         getEnvInt("MAX_UPLOAD_MB", 100),
			DefaultPagesPerPart: getEnvInt("DEFAULT_PAGES_PER_PART", 10),
		}
	})
	return serverConfig
}
