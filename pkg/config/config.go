package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/peterhellberg/duration"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	SecretKey         = "secret-key"
	DatabaseURL       = "database-url"
	QuizTimeLimit     = "quiz-time-limit"
	QuizQuestionCount = "quiz-question-count"
	SessionStore      = "session-store"
	SessionDir        = "session-dir"
	Port              = "port"
	CatalogCacheTTL   = "catalog-cache-ttl"
	SeedFile          = "seed-file"
	SecureCookies     = "secure-cookies"
)

const (
	DefaultSecretKey = "your_secret_key"

	SessionStoreCookie     = "cookie"
	SessionStoreFilesystem = "filesystem"
)

func init() {
	// Key used to sign session cookies and tokens
	viper.SetDefault(SecretKey, DefaultSecretKey)

	// Database connection string, the scheme selects the driver
	viper.SetDefault(DatabaseURL, "sqlite://quizfarm.db")

	// Time allowed for one quiz attempt, plain seconds or a duration string
	viper.SetDefault(QuizTimeLimit, "1200")

	// Number of questions sampled per attempt
	viper.SetDefault(QuizQuestionCount, 20)

	// Where sessions live. Filesystem sessions can be dropped server side, cookie sessions cannot.
	viper.SetDefault(SessionStore, SessionStoreFilesystem)

	// Directory for filesystem sessions, os temp dir when empty
	viper.SetDefault(SessionDir, "")

	viper.SetDefault(Port, 80)

	// How long the list of question ids is cached for the sampler
	viper.SetDefault(CatalogCacheTTL, "30s")

	// JSON file of questions installed at startup when missing
	viper.SetDefault(SeedFile, "")

	// Mark session and csrf cookies Secure, for deployments behind https
	viper.SetDefault(SecureCookies, false)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

type Config struct {
	SecretKey         string
	DatabaseURL       string
	QuizTimeLimit     time.Duration
	QuizQuestionCount int
	SessionStore      string
	SessionDir        string
	Port              int
	CatalogCacheTTL   time.Duration
	SeedFile          string
	SecureCookies     bool
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	glog.V(2).Infof("loaded environment from %s", path)
	return nil
}

// Load reads the current viper state into a Config.
func Load() (*Config, error) {
	limit, err := ParseDuration(viper.GetString(QuizTimeLimit))
	if err != nil {
		return nil, errors.Wrap(err, QuizTimeLimit)
	}
	if limit <= 0 {
		return nil, errors.Errorf("%s must be positive", QuizTimeLimit)
	}

	ttl, err := ParseDuration(viper.GetString(CatalogCacheTTL))
	if err != nil {
		return nil, errors.Wrap(err, CatalogCacheTTL)
	}

	store := viper.GetString(SessionStore)
	if store != SessionStoreCookie && store != SessionStoreFilesystem {
		return nil, errors.Errorf("%s must be %s or %s, got %q", SessionStore, SessionStoreCookie, SessionStoreFilesystem, store)
	}

	cfg := &Config{
		SecretKey:         viper.GetString(SecretKey),
		DatabaseURL:       viper.GetString(DatabaseURL),
		QuizTimeLimit:     limit,
		QuizQuestionCount: viper.GetInt(QuizQuestionCount),
		SessionStore:      store,
		SessionDir:        viper.GetString(SessionDir),
		Port:              viper.GetInt(Port),
		CatalogCacheTTL:   ttl,
		SeedFile:          viper.GetString(SeedFile),
		SecureCookies:     viper.GetBool(SecureCookies),
	}

	if cfg.SecretKey == DefaultSecretKey {
		glog.Warningf("%s is the built-in default, set SECRET_KEY for anything but local use", SecretKey)
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = os.TempDir()
	}

	return cfg, nil
}

// ParseDuration accepts a bare integer as seconds, otherwise a duration string like "20m" or "1h30m".
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := duration.Parse(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", raw)
	}
	return d, nil
}
