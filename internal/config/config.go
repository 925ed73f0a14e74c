package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	imagepkg "github.com/youruser/topster/internal/image"
	"github.com/youruser/topster/internal/logging"
)

type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Footer     FooterConfig    `yaml:"footer"`
	Player     PlayerConfig    `yaml:"player"`
	Log        logging.Config  `yaml:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type ThumbnailConfig struct {
	Chain          []string      `yaml:"chain"`           // URL templates with {id}, best first
	AttemptTimeout time.Duration `yaml:"attempt_timeout"` // per candidate URL
	MaxConcurrency int           `yaml:"max_concurrency"` // 0 means one goroutine per cell
}

type FooterConfig struct {
	Asset   string `yaml:"asset"` // optional image, read once at startup
	Caption string `yaml:"caption"`
}

type PlayerConfig struct {
	BaseURL string `yaml:"base_url"` // interactive page the QR code points at
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Thumbnails: ThumbnailConfig{
			Chain:          append([]string(nil), imagepkg.DefaultChain...),
			AttemptTimeout: imagepkg.DefaultAttemptTimeout,
		},
		Footer: FooterConfig{
			Asset:   "public/footer.png",
			Caption: imagepkg.DefaultCaption,
		},
		Player: PlayerConfig{
			BaseURL: "http://localhost:8080/",
		},
		Log: logging.Config{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads an optional .env file, then the YAML file at path (missing file
// means defaults), then applies environment overrides.
func Load(path string) (Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Thumbnails.Chain) == 0 {
		cfg.Thumbnails.Chain = append([]string(nil), imagepkg.DefaultChain...)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	// PORT is what most hosting platforms set
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.Addr = envString("TOPSTER_ADDR", cfg.Server.Addr)
	cfg.Thumbnails.AttemptTimeout = envDuration("TOPSTER_ATTEMPT_TIMEOUT", cfg.Thumbnails.AttemptTimeout)
	cfg.Thumbnails.MaxConcurrency = envInt("TOPSTER_MAX_CONCURRENCY", cfg.Thumbnails.MaxConcurrency)
	if chain := os.Getenv("TOPSTER_THUMBNAIL_CHAIN"); chain != "" {
		cfg.Thumbnails.Chain = splitList(chain)
	}
	cfg.Footer.Asset = envString("TOPSTER_FOOTER_ASSET", cfg.Footer.Asset)
	cfg.Footer.Caption = envString("TOPSTER_FOOTER_CAPTION", cfg.Footer.Caption)
	cfg.Player.BaseURL = envString("TOPSTER_PLAYER_URL", cfg.Player.BaseURL)
	cfg.Log.Level = envString("TOPSTER_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = envString("TOPSTER_LOG_FILE", cfg.Log.File)
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
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
