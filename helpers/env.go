package helpers

import (
	"os"
	"strconv"
	"time"
)

// GetEnv Takes a environment variable key and returns the value if it exists.
// Otherwise returns the fallback value provided
func GetEnv(key, fallback string) string {
	value, has := os.LookupEnv(key)
	if !has {
		return fallback
	}
	return value
}

// GetFirstEnv returns the first of keys that is set to a non-empty value.
func GetFirstEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return fallback
}

// getEnvParsed falls back silently when the value can't be parsed; config validates the result.
func getEnvParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func GetEnvBool(key string, fallback bool) bool {
	return getEnvParsed(key, fallback, strconv.ParseBool)
}

// GetEnvDuration accepts Go duration strings ("15s") as well as bare integers, which are read as seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	return getEnvParsed(key, fallback, parseSecondsOrDuration)
}

func parseSecondsOrDuration(val string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(val)
}
