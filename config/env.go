package config

import (
	"fmt"
	"os"
)

type AppEnv struct {
	LogLvl string

	PgHost   string
	PgPort   string
	PgDbName string
	SSLMode  string
	TimeZone string

	PgAppUser     string
	PgAppPassword string

	// Service role credentials used by the admin mutation gateway. They
	// default to the app credentials when unset.
	PgServiceUser     string
	PgServicePassword string

	JWTSecret string
}

func GetEnvironment() (env AppEnv, err error) {
	env = AppEnv{
		LogLvl:            getEnv("LOG_LEVEL", "debug"),
		PgHost:            getEnv("POSTGRES_HOST", ""),
		PgPort:            getEnv("POSTGRES_PORT", ""),
		PgDbName:          getEnv("POSTGRES_DB", ""),
		SSLMode:           getEnv("POSTGRES_SSL_MODE", "disable"),
		TimeZone:          getEnv("POSTGRES_TIMEZONE", "Asia/Jakarta"),
		PgAppUser:         getEnv("POSTGRES_USER", ""),
		PgAppPassword:     getEnv("POSTGRES_PASSWORD", ""),
		PgServiceUser:     getEnv("POSTGRES_SERVICE_USER", ""),
		PgServicePassword: getEnv("POSTGRES_SERVICE_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
	}

	if env.PgHost == "" || env.PgPort == "" || env.PgAppUser == "" ||
		env.PgAppPassword == "" || env.PgDbName == "" {
		return env, fmt.Errorf("incorrect environment params")
	}

	if env.JWTSecret == "" {
		return env, fmt.Errorf("incorrect environment params")
	}

	if env.PgServiceUser == "" {
		env.PgServiceUser = env.PgAppUser
		env.PgServicePassword = env.PgAppPassword
	}

	return env, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}
