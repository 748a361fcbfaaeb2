package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from skirmish.cfg.json in configDir and sets
// default values. A missing config file is not an error — every setting
// has a usable default.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("battle.scenario", "skirmish")
	viper.SetDefault("battle.seed", 1)
	viper.SetDefault("battle.maxTurns", 30)

	viper.SetDefault("content.dir", "./content")

	viper.SetDefault("db.path", "./skirmish.db")

	viper.SetDefault("server.addr", ":8723")

	viper.SetConfigName("skirmish.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 config value.
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
