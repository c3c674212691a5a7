package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Browser Browser `json:"browser" yaml:"browser" mapstructure:"browser"`
	Fetcher Fetcher `json:"fetcher" yaml:"fetcher" mapstructure:"fetcher"`
	Crawl   Crawl   `json:"crawl" yaml:"crawl" mapstructure:"crawl"`
}

// Browser configures the automation session used for scraping.
type Browser struct {
	Path      string `json:"path" yaml:"path" mapstructure:"path"`
	Headless  bool   `json:"headless" yaml:"headless" mapstructure:"headless"`
	UserAgent string `json:"userAgent" yaml:"userAgent" mapstructure:"userAgent"`
}

// Fetcher configures the external media-fetch subprocess.
type Fetcher struct {
	Implementation string        `json:"implementation" yaml:"implementation" mapstructure:"implementation"`
	MaxRetries     int           `json:"maxRetries" yaml:"maxRetries" mapstructure:"maxRetries"`
	Backoff        time.Duration `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// Crawl configures the pipeline: store locations, download destination, and
// scraping behavior.
type Crawl struct {
	URLStorePath   string        `json:"urlStorePath" yaml:"urlStorePath" mapstructure:"urlStorePath"`
	LogPath        string        `json:"logPath" yaml:"logPath" mapstructure:"logPath"`
	DestDir        string        `json:"destDir" yaml:"destDir" mapstructure:"destDir"`
	FreeLabel      string        `json:"freeLabel" yaml:"freeLabel" mapstructure:"freeLabel"`
	Concurrency    int           `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	ScrollInterval time.Duration `json:"scrollInterval" yaml:"scrollInterval" mapstructure:"scrollInterval"`
}

type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

// New reads a new configuration
func New(cu ConfigUnmarshaler) (Config, error) {
	var c Config

	if cu.ConfigFileUsed() != "" {
		err := cu.ReadInConfig()
		if err != nil {
			return c, err
		}
	}

	err := cu.Unmarshal(&c)
	return c, err
}
