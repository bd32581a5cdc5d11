package config

import "sync"

var (
	geminiOnce   sync.Once
	geminiConfig *GeminiConfig
)

type GeminiConfig struct {
	ProjectID string
	Region    string
	Model     string
}

func GetGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		loadEnv()
		geminiConfig = &GeminiConfig{
			ProjectID: getEnv("GEMINI_PROJECT_ID", ""),
			Region:    getEnv("GEMINI_REGION", "us-central1"),
			Model:     getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		}
	})
	return geminiConfig
}
