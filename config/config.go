package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value of an environment key. The .env file in the
// working directory is loaded once on first use; a missing file is ignored.
func Config(key string) string {
	loadOnce.Do(func() {
		_ = godotenv.Load(".env")
	})

	return os.Getenv(key)
}

// ConfigInt parses key as an integer, falling back to def when the key is
// unset or malformed.
func ConfigInt(key string, def int) int {
	if n, err := strconv.Atoi(Config(key)); err == nil {
		return n
	}
	return def
}

// ConfigDuration parses key with time.ParseDuration.
func ConfigDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(Config(key)); err == nil {
		return d
	}
	return def
}
