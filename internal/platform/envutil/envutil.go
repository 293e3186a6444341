package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset. When log is
// non-nil the resolved value is reported at debug level.
func String(name, def string, log *logger.Logger) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debugDefault(log, name, def)
		return def
	}
	if log != nil {
		log.Debug("env var set", "name", name, "value", v)
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debugDefault(log, name, def)
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("env var not an integer, using default", "name", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Bool(name string, def bool, log *logger.Logger) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "":
		debugDefault(log, name, def)
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Duration accepts Go duration strings ("750ms", "2s") or a bare integer
// interpreted as seconds.
func Duration(name string, def time.Duration, log *logger.Logger) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		debugDefault(log, name, def)
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		if log != nil {
			log.Warn("env var not a duration, using default", "name", name, "value", v, "default", def)
		}
		return def
	}
	return d
}

func debugDefault(log *logger.Logger, name string, def interface{}) {
	if log != nil {
		log.Debug("env var not set, using default", "name", name, "default", def)
	}
}
