package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	Environment     string
	AllowedOrigins  []string
	RequeueSurvivor bool
	SendBufferSize  int
}

// Load reads configuration from environment variables with sensible
// development defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("REQUEUE_SURVIVOR", true)
	v.SetDefault("SEND_BUFFER_SIZE", 256)

	// Parse allowed origins (comma-separated)
	origins := strings.Split(v.GetString("ALLOWED_ORIGINS"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port:            v.GetString("PORT"),
		Environment:     v.GetString("ENVIRONMENT"),
		AllowedOrigins:  origins,
		RequeueSurvivor: v.GetBool("REQUEUE_SURVIVOR"),
		SendBufferSize:  v.GetInt("SEND_BUFFER_SIZE"),
	}
}
