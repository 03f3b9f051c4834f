package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads a .env file (if present) from the given directory and wires
// viper so every CONCIERGE_* and plain environment variable is readable via
// viper.Get*. Missing .env is not an error; deployments may use real env vars.
func LoadConfig(path string) {
	envFile := filepath.Join(path, ".env")
	if err := godotenv.Load(envFile); err == nil {
		logrus.Debugf("[CONFIG] Loaded environment from %s", envFile)
	}

	viper.AutomaticEnv()
	viper.SetConfigFile(envFile)
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()
}
