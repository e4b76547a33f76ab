package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DeliveryConfig struct {
	MinDays int `mapstructure:"min_days"`
	MaxDays int `mapstructure:"max_days"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

type MaintenanceConfig struct {
	StalePendingHours int `mapstructure:"stale_pending_hours"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Delivery    DeliveryConfig    `mapstructure:"delivery"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

var vp *viper.Viper

func LoadConfig() (Config, error) {
	vp = viper.New()

	var config Config

	vp.SetConfigName("config")
	vp.SetConfigType("json")
	vp.AddConfigPath("config")

	vp.SetDefault("server.port", "8000")
	vp.SetDefault("server.allowed_origins", []string{"*"})
	vp.SetDefault("delivery.min_days", 3)
	vp.SetDefault("delivery.max_days", 30)
	vp.SetDefault("upload.dir", "uploads")
	vp.SetDefault("upload.base_url", "/uploads")
	vp.SetDefault("maintenance.stale_pending_hours", 24)

	err := vp.ReadInConfig()
	if err != nil {
		return Config{}, err
	}

	err = vp.Unmarshal(&config)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}
