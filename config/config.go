package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const Version = "4.0.0"

// App holds every setting the processes read from the environment.
type App struct {
	Port           string
	LogLevel       string
	RequestTimeout time.Duration

	MongoURI            string
	MongoDB             string
	MongoForceTLSConfig bool
	MongoInsecureTLS    bool

	PostgresURI string
	RedisAddr   string

	GCPProject      string
	GCPLocation     string
	GeminiModel     string
	CredentialsFile string
	LLMRatePerSec   float64
	LLMBurst        int
	QuestionCount   int

	ReportsDir   string
	ReportBucket string
	ReportPublic bool

	TTSCacheTTL       time.Duration
	PreprocessWorkers int

	CodeRunner        string
	CodeRunnerTimeout time.Duration
	CodeRunnerEnabled bool

	AllowedOrigins []string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("MONGO_DB", "aieta")
	v.SetDefault("GOOGLE_CLOUD_LOCATION", "us-central1")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LLM_RATE_PER_SEC", 5)
	v.SetDefault("LLM_BURST", 5)
	v.SetDefault("QUESTION_COUNT", 2)
	v.SetDefault("REPORTS_DIR", "reports")
	v.SetDefault("TTS_CACHE_TTL", "24h")
	v.SetDefault("PREPROCESS_WORKERS", 2)
	v.SetDefault("CODE_RUNNER", "python3")
	v.SetDefault("CODE_RUNNER_TIMEOUT", "10s")
	v.SetDefault("CODE_RUNNER_ENABLED", false)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	return v
}

// Load reads the environment (call godotenv.Load first for .env support).
func Load() (*App, error) {
	return load(newViper())
}

func load(v *viper.Viper) (*App, error) {
	cfg := &App{
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),

		MongoURI:            v.GetString("MONGO_URI"),
		MongoDB:             v.GetString("MONGO_DB"),
		MongoForceTLSConfig: v.GetBool("MONGO_FORCE_TLS_CONFIG") || v.GetString("GO_ENV") == "development",
		MongoInsecureTLS:    v.GetBool("MONGO_INSECURE_TLS"),

		PostgresURI: v.GetString("POSTGRES_URI"),
		RedisAddr:   firstNonEmpty(v.GetString("REDIS_ADDR"), v.GetString("REDIS_URI"), v.GetString("REDIS_URL")),

		GCPProject:      v.GetString("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:     v.GetString("GOOGLE_CLOUD_LOCATION"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		LLMRatePerSec:   v.GetFloat64("LLM_RATE_PER_SEC"),
		LLMBurst:        v.GetInt("LLM_BURST"),
		QuestionCount:   v.GetInt("QUESTION_COUNT"),

		ReportsDir:   v.GetString("REPORTS_DIR"),
		ReportBucket: v.GetString("REPORT_BUCKET"),
		ReportPublic: v.GetBool("REPORT_PUBLIC"),

		TTSCacheTTL:       v.GetDuration("TTS_CACHE_TTL"),
		PreprocessWorkers: v.GetInt("PREPROCESS_WORKERS"),

		CodeRunner:        v.GetString("CODE_RUNNER"),
		CodeRunnerTimeout: v.GetDuration("CODE_RUNNER_TIMEOUT"),
		CodeRunnerEnabled: v.GetBool("CODE_RUNNER_ENABLED"),

		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI environment variable is not set")
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
