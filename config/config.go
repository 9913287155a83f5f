package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/logging"
	"github.com/linesmerrill/lexmatch-api/models"
)

const (
	defaultPort           = "8080"
	defaultGeminiModel    = "gemini-3-flash-preview"
	defaultAnalyzeTimeout = 60 * time.Second
	defaultTaskRetention  = 30 * time.Minute
	defaultRequestTimeout = 90 * time.Second
	defaultSessionTTL     = 24 * time.Hour
	defaultNotifyFrom     = "no-reply@lexmatch.app"
)

// Config holds the project config values
type Config struct {
	Port            string
	BaseURL         string
	Env             string
	GeminiAPIKey    string
	GeminiModel     string
	AnalyzeTimeout  time.Duration
	TaskRetention   time.Duration
	RequestTimeout  time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	SendgridAPIKey  string
	NotifyFromEmail string
	SeedFile        string
}

// New sets up all config related services. The environment is read once,
// here, and the global zap logger is replaced to match APP_ENV.
func New() *Config {
	env := os.Getenv("APP_ENV")

	logger, err := logging.New(env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	return &Config{
		Port:            stringEnv("PORT", defaultPort),
		BaseURL:         os.Getenv("BASE_URL"),
		Env:             env,
		GeminiAPIKey:    apiKey,
		GeminiModel:     stringEnv("GEMINI_MODEL", defaultGeminiModel),
		AnalyzeTimeout:  durationEnv("ANALYZE_TIMEOUT", defaultAnalyzeTimeout),
		TaskRetention:   durationEnv("TASK_RETENTION", defaultTaskRetention),
		RequestTimeout:  durationEnv("REQUEST_TIMEOUT", defaultRequestTimeout),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      durationEnv("SESSION_TTL", defaultSessionTTL),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyFromEmail: stringEnv("NOTIFY_FROM_EMAIL", defaultNotifyFrom),
		SeedFile:        os.Getenv("SEED_FILE"),
	}
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		zap.S().Warnw("ignoring invalid duration",
			"key", key,
			"value", raw,
			"default", fallback)
		return fallback
	}
	return d
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	zap.S().Errorw(message,
		"status", httpStatusCode,
		"error", errText)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	_, _ = w.Write(b)
}
