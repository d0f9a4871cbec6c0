package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	GeminiApiKey string
	JWTSecret    string
	// GeminiTimeout bounds every call to the Gemini API so the interview
	// flow never blocks indefinitely on the model.
	GeminiTimeout time.Duration
}

type Server struct {
	Port string
}

type Database struct {
	Path string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "vintervu.db")
	viper.SetDefault("GEMINI_TIMEOUT_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Path = viper.GetString("DATABASE_PATH")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.JWTSecret = viper.GetString("JWT_SECRET")
	config.GeminiTimeout = time.Duration(viper.GetInt("GEMINI_TIMEOUT_SECONDS")) * time.Second

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Path).Msg("Config loaded")
	return &config, nil
}
