package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort             = 3318
	DefaultSQLiteURL        = "file:tallygo.db"
	DefaultRecognitionURL   = "https://api.openai.com/v1/chat/completions"
	DefaultRecognitionModel = "gpt-4o"
	DefaultCameraGlob       = "/dev/video*"
	DefaultLogTTL           = 12 * time.Hour
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SessionSalt      string
	OperatorPassword string

	APIKey           string
	RecognitionURL   string
	RecognitionModel string
	SubmitURL        string

	CameraGlob string
	FFmpegPath string

	RedisURL string
	LogTTL   time.Duration
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logTTL string

	fs := flag.NewFlagSet("tallygo", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.SubmitURL, "submit-url", "", "Ballot backend URL (default: this server's /ballots)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the operator log (default: in memory)")
	fs.StringVar(&logTTL, "log-ttl", "", "Operator log lifetime in Redis")

	// Recognition
	fs.StringVar(&cfg.RecognitionURL, "recognition-url", "", "Chat completion endpoint")
	fs.StringVar(&cfg.RecognitionModel, "model", "", "Recognition model")

	// Camera
	fs.StringVar(&cfg.CameraGlob, "camera-glob", "", "Video device glob")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", "", "Path to ffmpeg")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")
	fs.StringVar(&cfg.OperatorPassword, "operator-password", "", "Operator password (prefer env)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "Recognition API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil || port <= 0 || port > 65535 {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type '%s' (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	cfg.SubmitURL = orEnv(cfg.SubmitURL, "SUBMIT_URL", fmt.Sprintf("http://localhost:%d/ballots", cfg.Port))
	cfg.RedisURL = orEnv(cfg.RedisURL, "REDIS_URL", "")
	cfg.RecognitionURL = orEnv(cfg.RecognitionURL, "RECOGNITION_URL", DefaultRecognitionURL)
	cfg.RecognitionModel = orEnv(cfg.RecognitionModel, "RECOGNITION_MODEL", DefaultRecognitionModel)
	cfg.CameraGlob = orEnv(cfg.CameraGlob, "CAMERA_GLOB", DefaultCameraGlob)
	cfg.FFmpegPath = orEnv(cfg.FFmpegPath, "FFMPEG_PATH", "ffmpeg")

	logTTL = orEnv(logTTL, "LOG_TTL", "")
	cfg.LogTTL = DefaultLogTTL
	if logTTL != "" {
		ttl, err := time.ParseDuration(logTTL)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid LOG_TTL (use a duration like 12h)")
		}
		cfg.LogTTL = ttl
	}

	// Optional secrets
	cfg.OperatorPassword = orEnv(cfg.OperatorPassword, "OPERATOR_PASSWORD", "")
	cfg.APIKey = orEnv(cfg.APIKey, "OPENAI_API_KEY", "")

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	return cfg, nil
}

func orEnv(value, key, fallback string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(key); env != "" {
		return env
	}
	return fallback
}
