package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
		// Token lifetimes in minutes.
		AccessTokenTTLMin  int `mapstructure:"access_token_ttl_min"`
		RefreshTokenTTLMin int `mapstructure:"refresh_token_ttl_min"`
		// EnforceExpiry controls whether token verification rejects tokens
		// past their exp claim. Keep this true in production.
		EnforceExpiry bool `mapstructure:"enforce_expiry"`
	} `mapstructure:"jwt"`
	Security struct {
		// PublicEndpoints lists request paths that never require an
		// authenticated identity. Supports exact paths and trailing
		// "/*" glob patterns, e.g. "/auth/*".
		PublicEndpoints []string `mapstructure:"public_endpoints"`
	} `mapstructure:"security"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_token_ttl_min", 15)
	viper.SetDefault("jwt.refresh_token_ttl_min", 60)
	viper.SetDefault("jwt.enforce_expiry", true)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
