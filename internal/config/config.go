package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func getStringOr(key, fallback string) string {
	initConfig()
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func getDurationOr(key string, fallback time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return fallback
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return fallback
	}
	return dur
}

// GetOpenCageAPIKey reads the geocoding key from the environment, loading .env first.
func GetOpenCageAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENCAGE_KEY")
}

func GetOpenCageApiUrl() string {
	return getStringOr("opencage.api_url", "https://api.opencagedata.com/geocode/v1/json")
}

// GetGeocodingCountry is appended to every postal code lookup.
func GetGeocodingCountry() string {
	return getStringOr("opencage.country", "India")
}

// GetGeocodingDailyQuota returns the number of geocoding calls allowed per UTC day.
// Zero disables the quota guard.
func GetGeocodingDailyQuota() int64 {
	initConfig()
	return viper.GetInt64("opencage.daily_quota")
}

func GetOpenMeteoApiUrl() string {
	return getStringOr("openmeteo.api_url", "https://api.open-meteo.com/v1/forecast")
}

// GetHTTPTimeout is the timeout for every outbound request. Defaults to 10s.
func GetHTTPTimeout() time.Duration {
	return getDurationOr("http.timeout", 10*time.Second)
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	return getStringOr("server.port", "8080")
}

// GetServerTimeoutDuration parses a server timeout key, falling back when it is unset or invalid.
func GetServerTimeoutDuration(key string, fallback time.Duration) time.Duration {
	return getDurationOr("server."+key, fallback)
}

func GetTestRedisMockPort() string {
	return getStringOr("test.redis_mock_port", ":16379")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

// GetLogger returns the process-wide development logger. LOG_LEVEL is read
// straight from the environment because initConfig itself logs through here.
func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		if raw := os.Getenv("LOG_LEVEL"); raw != "" {
			if lvl, err := zapcore.ParseLevel(raw); err == nil {
				cfg.Level = zap.NewAtomicLevelAt(lvl)
			}
		}
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDurationOr("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the per-IP limiter.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the per-postal-code limiter.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
