package config

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	loggingOnce   sync.Once
	loggingConfig *LoggingConfig
)

// LoggingConfig is read from the optional yaml config file; every field has
// a working default so the file can be absent entirely.
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
}

type yamlConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

func GetLoggingConfig() *LoggingConfig {
	loggingOnce.Do(func() {
		loadEnv()
		loggingConfig = &LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stdout"},
		}

		path := getEnv("CONFIG_FILE", "config.yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		var parsed yamlConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			log.Printf("Warning: failed to parse %s: %v", path, err)
			return
		}
		if parsed.Logging.Level != "" {
			loggingConfig.Level = parsed.Logging.Level
		}
		if parsed.Logging.Encoding != "" {
			loggingConfig.Encoding = parsed.Logging.Encoding
		}
		if len(parsed.Logging.OutputPaths) > 0 {
			loggingConfig.OutputPaths = parsed.Logging.OutputPaths
		}
	})
	return loggingConfig
}
