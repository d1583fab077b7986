package utils

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
)

const (
	MiB int = 1024 * 1024

	minUploadMaxSize     int = 1
	defaultUploadMaxSize int = 16
	maxUploadMaxSize     int = 64

	minNotifyTimeout     int = 1
	defaultNotifyTimeout int = 5
	maxNotifyTimeout     int = 30

	minRequestsLimit     int = 1
	defaultRequestsLimit int = 10
	maxRequestsLimit     int = 1000

	EmailProviderSMTP     string = "smtp"
	EmailProviderSendGrid string = "sendgrid"
)

func IsDebug() bool {
	isDebug, err := strconv.ParseBool(os.Getenv("APP_DEBUG"))
	if err != nil {
		isDebug = false
	}

	return isDebug
}

func AppName() string {
	n := strings.TrimSpace(os.Getenv("APP_NAME"))

	if len(n) < 1 {
		n = "Rescue Reporter"
	}

	return n
}

func AppAddress() string {
	a := strings.TrimSpace(os.Getenv("APP_ADDRESS"))

	if len(a) < 1 {
		a = ":5000"
	}

	return a
}

func DefaultTimeZone() string {
	tz := os.Getenv("TZ")
	if len(tz) < 1 {
		tz = "UTC"
	}

	return tz
}

func DefaultLocation() *time.Location {
	tz := DefaultTimeZone()

	loc, err := time.LoadLocation(tz)
	if err != nil {
		sentry.CaptureException(err)
		return time.Now().Location()
	}

	return loc
}

func DatabaseDSN() string {
	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432
	}

	return fmt.Sprintf(
		"postgres://%[4]s:%[5]s@%[1]s:%[2]d/%[3]s",
		os.Getenv("DB_HOST"),
		port,
		os.Getenv("DB_NAME"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
	)
}

func RedisAddress() string {
	port, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		port = 6379
	}

	host := os.Getenv("REDIS_HOST")
	if len(host) < 1 {
		host = "localhost"
	}

	return fmt.Sprintf("%s:%d", host, port)
}

func RedisPassword() string {
	return os.Getenv("REDIS_PASS")
}

func UploadDir() string {
	d := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))

	if len(d) < 1 {
		d = "uploads"
	}

	return d
}

// UploadMaxSize is the request body limit in bytes.
func UploadMaxSize() int {
	return clampEnvInt("UPLOAD_MAX_SIZE_MIB", minUploadMaxSize, defaultUploadMaxSize, maxUploadMaxSize) * MiB
}

func NotifyChannels() []string {
	c := os.Getenv("NOTIFY_CHANNELS")

	if len(strings.TrimSpace(c)) < 1 {
		return []string{"log"}
	}

	return CleanStringList(SplitAny(strings.ToLower(c), SplitChars))
}

func NotifyTimeout() time.Duration {
	return time.Duration(clampEnvInt("NOTIFY_TIMEOUT_SECONDS", minNotifyTimeout, defaultNotifyTimeout, maxNotifyTimeout)) * time.Second
}

func EmailEnabled() bool {
	for _, c := range NotifyChannels() {
		if c == "email" {
			return true
		}
	}

	return false
}

func EmailProvider() string {
	p := strings.ToLower(strings.TrimSpace(os.Getenv("EMAIL_PROVIDER")))

	switch p {
	case EmailProviderSMTP, EmailProviderSendGrid:
		return p
	case "":
		return EmailProviderSMTP
	default:
		slog.Warn(fmt.Sprintf("Unknown email provider '%s'. Falling back to '%s'.", p, EmailProviderSMTP))
		return EmailProviderSMTP
	}
}

func EmailFrom() string {
	e := os.Getenv("EMAIL_FROM")

	if len(e) < 1 {
		slog.Error("From email is empty.")
		return ""
	}

	if !IsValidEmail(e) {
		slog.Error("From email is invalid.")
		return ""
	}

	return e
}

func SendGridAPIKey() string {
	return os.Getenv("SENDGRID_API_KEY")
}

func MapsBaseURL() string {
	u := strings.TrimSpace(os.Getenv("MAPS_BASE_URL"))

	if len(u) < 1 {
		u = "https://www.google.com/maps?q="
	}

	return u
}

func NgoSeedFile() string {
	f := strings.TrimSpace(os.Getenv("NGO_SEED_FILE"))

	if len(f) < 1 {
		f = "data/ngos.yml"
	}

	return f
}

func RequestsLimit() int {
	return clampEnvInt("LIMIT_REQUESTS_MAX", minRequestsLimit, defaultRequestsLimit, maxRequestsLimit)
}

func CorsAllowOrigins() string {
	o := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS"))

	if len(o) < 1 {
		o = "*"
	}

	return o
}

func clampEnvInt(key string, min int, def int, max int) int {
	raw := os.Getenv(key)

	if len(strings.TrimSpace(raw)) < 1 {
		return def
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn(fmt.Sprintf("The value '%s' of %s is invalid. The value %d will be used instead.", raw, key, def))
		return def
	}

	if v < min {
		v = min
	}

	if v > max {
		v = max
	}

	return v
}
