package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output string `yaml:"output"`
	Debug  bool   `yaml:"debug"`

	// RetryDelay is the pause in seconds before retrying a failed chapter.
	RetryDelay        int  `yaml:"retry_delay"`
	RequestIntervalMS int  `yaml:"request_interval_ms"`
	Timeout           int  `yaml:"timeout"`
	Progress          bool `yaml:"progress"`

	BaseURL          string `yaml:"base_url"`
	Cookie           string `yaml:"cookie"`
	CookieFile       string `yaml:"cookie_file"`
	UserAgent        string `yaml:"user_agent"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`
}

// Options carries CLI flag values. Zero values leave the profile untouched.
type Options struct {
	IgnoreConfig      bool
	Debug             bool
	Output            string
	RequestIntervalMS int
	Timeout           int
	NoProgress        bool
	BaseURL           string
	Cookie            string
	CookieFile        string
	UserAgent         string
	CloudflareBypass  bool
}

const (
	DefaultRetryDelay = 2
	// DefaultTimeout of 0 leaves requests unbounded, like a plain http.Client.
	DefaultTimeout = 0
	DefaultBaseURL = "https://www.webnovelpub.com"
)

func DefaultConfig() *Config {
	return &Config{
		Output:            ".",
		RetryDelay:        DefaultRetryDelay,
		RequestIntervalMS: 0,
		Timeout:           DefaultTimeout,
		Progress:          true,
		BaseURL:           DefaultBaseURL,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// loadYAML reads a profile on top of the defaults so keys missing from older
// files keep their default values.
func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged resolves the active profile of s and applies opts on top.
// The returned string describes where the configuration came from.
func (s *Store) LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := s.ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `noveld config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	return DefaultStore().LoadMerged(opts)
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Debug {
		c.Debug = true
	}
	if o.RequestIntervalMS != 0 {
		c.RequestIntervalMS = o.RequestIntervalMS
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.NoProgress {
		c.Progress = false
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Timeout < 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestIntervalMS < 0 {
		c.RequestIntervalMS = 0
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
}

func (c *Config) Print() {
	fmt.Printf(" -output: %s\n", c.Output)
	fmt.Printf(" -retry_delay: %ds\n", c.RetryDelay)
	if c.Timeout > 0 {
		fmt.Printf(" -timeout: %ds\n", c.Timeout)
	} else {
		fmt.Println(" -timeout: none")
	}
	if c.RequestIntervalMS > 0 {
		fmt.Printf(" -request_interval_ms: %d\n", c.RequestIntervalMS)
	}
	if !c.Progress {
		fmt.Printf(" -progress: %t\n", c.Progress)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.BaseURL != DefaultBaseURL {
		fmt.Printf(" -base_url: %s\n", c.BaseURL)
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.CloudflareBypass {
		fmt.Printf(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
}
