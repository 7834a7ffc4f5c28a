package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/sportcast/internal/event"
)

// Duration is a time.Duration that unmarshals from YAML scalars in Go
// duration syntax, e.g. "30s" or "500ms".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// RetryConfig bounds the exponential backoff applied around listing fetches.
// Retries apply to the fetch step only, never to cache reads.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	MaxDelay    Duration `yaml:"max_delay"`
}

// BrowserConfig controls the scripted-browser document source.
type BrowserConfig struct {
	Headless        bool     `yaml:"headless"`
	RenderWait      Duration `yaml:"render_wait"`
	PageLoadTimeout Duration `yaml:"page_load_timeout"`
}

// SMTPConfig holds the non-secret half of email delivery settings.
type SMTPConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	UseTLS bool   `yaml:"use_tls"`
}

// Config carries every tunable the pipeline reads.
type Config struct {
	// Source site
	BaseURL    string                 `yaml:"base_url"`
	UserAgent  string                 `yaml:"user_agent"`
	Timeout    Duration               `yaml:"timeout"`
	SportPaths map[event.Sport]string `yaml:"sport_paths"`
	Sports     []event.Sport          `yaml:"sports"`

	// Qualification
	NotificationThreshold float64 `yaml:"notification_threshold"`
	FormWindow            int     `yaml:"form_window"`
	H2HWindow             int     `yaml:"h2h_window"`
	H2HMinWinRate         float64 `yaml:"h2h_min_win_rate"`

	// Extraction: tolerance band for the fallback probability scan.
	ProbabilitySumMin float64 `yaml:"probability_sum_min"`
	ProbabilitySumMax float64 `yaml:"probability_sum_max"`

	// Cache
	CacheDir string   `yaml:"cache_dir"`
	CacheTTL Duration `yaml:"cache_ttl"`

	// Rate limiting and retry
	RequestDelay Duration    `yaml:"request_delay"`
	Retry        RetryConfig `yaml:"retry"`

	Browser BrowserConfig `yaml:"browser"`
	SMTP    SMTPConfig    `yaml:"smtp"`

	// Secrets, from the environment only.
	SMTPUser     string `yaml:"-"`
	SMTPPassword string `yaml:"-"`
	Recipient    string `yaml:"-"`
}

// Default returns the configuration the pipeline runs with when no file
// overrides are given.
func Default() *Config {
	return &Config{
		BaseURL:   "https://www.forebet.com",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Timeout:   Duration(30 * time.Second),
		SportPaths: map[event.Sport]string{
			event.Football:         "football-tips-and-predictions-for-today",
			event.Basketball:       "basketball/predictions-today",
			event.Volleyball:       "volleyball/predictions-today",
			event.Hockey:           "hockey/predictions-today",
			event.Handball:         "handball/predictions-today",
			event.AmericanFootball: "american-football/predictions-today",
			event.Baseball:         "baseball/predictions-today",
			event.Rugby:            "rugby/predictions-today",
			event.Cricket:          "cricket/predictions-today",
		},
		Sports: []event.Sport{
			event.Football,
			event.Basketball,
			event.Volleyball,
			event.Hockey,
			event.Handball,
		},

		NotificationThreshold: 60,
		FormWindow:            6,
		H2HWindow:             10,
		H2HMinWinRate:         0.60,

		ProbabilitySumMin: 90,
		ProbabilitySumMax: 110,

		CacheDir: "~/.local/share/sportcast/cache",
		CacheTTL: Duration(time.Hour),

		RequestDelay: Duration(2 * time.Second),
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   Duration(5 * time.Second),
			MaxDelay:    Duration(60 * time.Second),
		},

		Browser: BrowserConfig{
			Headless:        true,
			RenderWait:      Duration(15 * time.Second),
			PageLoadTimeout: Duration(30 * time.Second),
		},

		SMTP: SMTPConfig{
			Host:   "smtp.gmail.com",
			Port:   587,
			UseTLS: true,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment. Path may be empty, in which case only defaults and the
// environment apply. A .env file in the working directory is honored when
// present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Missing .env is fine; system environment still applies.
	_ = godotenv.Load()

	cfg.SMTPUser = os.Getenv("SPORTCAST_SMTP_USER")
	cfg.SMTPPassword = os.Getenv("SPORTCAST_SMTP_PASSWORD")
	cfg.Recipient = os.Getenv("SPORTCAST_RECIPIENT")

	if err := cfg.validateTunables(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateTunables() error {
	for _, s := range c.Sports {
		if !s.Valid() {
			return fmt.Errorf("unsupported sport in config: %q", s)
		}
		if _, ok := c.SportPaths[s]; !ok {
			return fmt.Errorf("no listing path configured for sport %q", s)
		}
	}
	if c.NotificationThreshold < 0 || c.NotificationThreshold > 100 {
		return fmt.Errorf("notification_threshold %v outside [0,100]", c.NotificationThreshold)
	}
	if c.FormWindow <= 0 {
		return fmt.Errorf("form_window must be positive, got %d", c.FormWindow)
	}
	if c.H2HMinWinRate < 0 || c.H2HMinWinRate > 1 {
		return fmt.Errorf("h2h_min_win_rate %v outside [0,1]", c.H2HMinWinRate)
	}
	if c.ProbabilitySumMin > c.ProbabilitySumMax {
		return fmt.Errorf("probability sum band inverted: [%v,%v]", c.ProbabilitySumMin, c.ProbabilitySumMax)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// ValidateSecrets confirms delivery credentials are present. Called at startup
// before any scraping begins, so a misconfigured run fails before spending
// network requests.
func (c *Config) ValidateSecrets() error {
	missing := []string{}
	if c.SMTPUser == "" {
		missing = append(missing, "SPORTCAST_SMTP_USER")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "SPORTCAST_SMTP_PASSWORD")
	}
	if c.Recipient == "" {
		missing = append(missing, "SPORTCAST_RECIPIENT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// SportURL returns the full listing URL for a sport.
func (c *Config) SportURL(sport event.Sport) (string, error) {
	path, ok := c.SportPaths[sport]
	if !ok {
		return "", fmt.Errorf("no listing path for sport %q", sport)
	}
	return c.BaseURL + "/" + path, nil
}
