package config

import "sync"

var (
	historyOnce   sync.Once
	historyConfig *HistoryConfig
)

// HistoryConfig selects where the serialized history slot lives.
type HistoryConfig struct {
	// Backend is "file" or "redis".
	Backend  string
	FilePath string
	// Key names the slot under the redis backend.
	Key           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func GetHistoryConfig() *HistoryConfig {
	historyOnce.Do(func() {
		loadEnv()
		historyConfig = &HistoryConfig{
			Backend:       getEnv("HISTORY_BACKEND", "file"),
			FilePath:      getEnv("HISTORY_FILE", "data/history.json"),
			Key:           getEnv("HISTORY_REDIS_KEY", "processo:history"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		}
	})
	return historyConfig
}
