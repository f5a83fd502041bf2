// Package config provides configuration loading and validation for the CLI.
// Values are layered: built-in defaults, then the YAML file, then environment
// variables, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/skillra/hh-harvester/internal/crawling"
	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/fetch"
	"github.com/skillra/hh-harvester/internal/types"
)

// Environment variables that override file values.
const (
	EnvProxies = "HH_HARVESTER_PROXIES"
	EnvOutput  = "HH_HARVESTER_OUTPUT"
)

// DefaultAreas are the search areas crawled when none are given: Russia,
// Belarus, Kazakhstan, Azerbaijan, Ukraine, Armenia, Georgia, Kyrgyzstan,
// Uzbekistan, Moldova, Tajikistan and Turkmenistan.
var DefaultAreas = []int{113, 40, 159, 160, 5, 204, 237, 246, 111, 51, 194, 218}

// DefaultQuery is a broad title filter over IT roles.
const DefaultQuery = `NAME:(программист OR разработчик OR !developer OR "software engineer" ` +
	`OR "software developer" OR "инженер-программист" OR devops OR "data engineer" ` +
	`OR "data scientist" OR "ML engineer" OR тестировщик OR "QA engineer" OR "QA automation" ` +
	`OR тестир* OR "site reliability engineer" OR SRE OR "platform engineer" ` +
	`OR "infrastructure engineer" OR "system administrator" OR "системный администратор" ` +
	`OR "сетевой инженер" OR "network engineer" OR "инженер технической поддержки" ` +
	`OR "support engineer" OR "администратор баз данных" OR DBA OR "database engineer" ` +
	`OR "security engineer" OR DevSecOps OR "инженер информационной безопасности" ` +
	`OR "data analyst" OR "аналитик данных" OR "product analyst" OR "BI analyst" ` +
	`OR "BI-аналитик" OR "BI developer" OR "ETL developer" OR "DWH разработчик" ` +
	`OR "системный аналитик" OR "system analyst" OR "solution architect" ` +
	`OR "software architect" OR "архитектор решений")`

// DefaultTarget is the number of rows a run aims for.
const DefaultTarget = 10000

// Identity is one request identity from the config file.
type Identity struct {
	UserAgent      string `yaml:"user_agent" validate:"required"`
	Referer        string `yaml:"referer,omitempty" validate:"omitempty,url"`
	AcceptLanguage string `yaml:"accept_language,omitempty"`
}

// Retry tunes the transport's retry policy.
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1,lte=20"`
	BackoffBase time.Duration `yaml:"backoff_base" validate:"gte=0"`
	BackoffMax  time.Duration `yaml:"backoff_max" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Config is the full run configuration.
type Config struct {
	Query          string  `yaml:"query"`
	Target         int     `yaml:"limit" validate:"gte=0"`
	Delay          float64 `yaml:"delay" validate:"gte=0"` // seconds between requests
	Jitter         float64 `yaml:"jitter" validate:"gte=0,lte=1"`
	Output         string  `yaml:"output" validate:"required"`
	MaxPages       int     `yaml:"max_pages" validate:"gte=0"`       // per shard, 0 = unlimited
	MaxTotalPages  int     `yaml:"max_total_pages" validate:"gte=0"` // 0 = unlimited
	ProxyFile      string  `yaml:"proxies"`
	Areas          []int   `yaml:"areas" validate:"required,min=1,dive,gt=0"`
	Workers        int     `yaml:"workers" validate:"gte=1,lte=64"`
	OnlyWithSalary bool    `yaml:"only_with_salary"`
	SkipEmployers  bool    `yaml:"skip_employers"`
	Verbose        bool    `yaml:"verbose"`
	RotateAfter    int     `yaml:"rotate_after" validate:"gte=0"`
	DomainPolicy   string  `yaml:"domain_policy" validate:"omitempty,oneof=priority alphabetical"`

	Retry         Retry              `yaml:"retry"`
	CurrencyRates map[string]float64 `yaml:"currency_rates" validate:"dive,keys,len=3,endkeys,gt=0"`
	Identities    []Identity         `yaml:"identities" validate:"dive"`

	// Proxies is filled from ProxyFile by Resolve.
	Proxies []*url.URL `yaml:"-"`
}

// Domain policies selectable in the config file.
const (
	DomainPolicyPriority     = "priority"
	DomainPolicyAlphabetical = "alphabetical"
)

// ConfigError is a fatal configuration problem detected before any fetch.
//
//nolint:revive // the name is part of the package's error vocabulary
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// DefaultOutput returns a timestamped CSV path under data/.
func DefaultOutput(now time.Time) string {
	return filepath.Join("data", fmt.Sprintf("hh_vacancies_%s.csv", now.Format("2006_01_02_15_04_05")))
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := fetch.DefaultOptions()
	return &Config{
		Query:   DefaultQuery,
		Target:  DefaultTarget,
		Delay:   opts.BaseDelay.Seconds(),
		Jitter:  opts.Jitter,
		Output:  DefaultOutput(time.Now()),
		Areas:   append([]int(nil), DefaultAreas...),
		Workers: crawling.DefaultWorkers,
		Retry: Retry{
			MaxAttempts: opts.MaxAttempts,
			BackoffBase: opts.BackoffBase,
			BackoffMax:  opts.BackoffMax,
			Timeout:     opts.Timeout,
		},
		RotateAfter:  fetch.DefaultRotateAfter,
		DomainPolicy: DomainPolicyPriority,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "config", Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Field: "config", Message: "failed to parse config YAML", Cause: err}
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment. getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvProxies)); v != "" {
		c.ProxyFile = v
	}
	if v := strings.TrimSpace(getenv(EnvOutput)); v != "" {
		c.Output = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges. Every failure is a *ConfigError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed on %q (value %v)", fe.Tag(), fe.Value()),
				Cause:   err,
			}
		}
		return &ConfigError{Field: "config", Message: "invalid configuration", Cause: err}
	}
	if c.Retry.BackoffMax > 0 && c.Retry.BackoffBase > c.Retry.BackoffMax {
		return &ConfigError{Field: "retry.backoff_base", Message: "must not exceed retry.backoff_max"}
	}
	return nil
}

// Resolve validates the configuration and loads the proxy file.
func (c *Config) Resolve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	proxies, err := LoadProxies(c.ProxyFile)
	if err != nil {
		return err
	}
	c.Proxies = proxies
	return nil
}

// FetchOptions maps the configuration onto transport options.
func (c *Config) FetchOptions() *fetch.Options {
	return &fetch.Options{
		Timeout:     c.Retry.Timeout,
		BaseDelay:   time.Duration(c.Delay * float64(time.Second)),
		Jitter:      c.Jitter,
		MaxAttempts: c.Retry.MaxAttempts,
		BackoffBase: c.Retry.BackoffBase,
		BackoffMax:  c.Retry.BackoffMax,
	}
}

// Rotation creates the run's identity and proxy rotation state.
func (c *Config) Rotation() *fetch.Rotation {
	var identities []fetch.Identity
	for _, id := range c.Identities {
		identities = append(identities, fetch.Identity{
			UserAgent:      id.UserAgent,
			Referer:        id.Referer,
			AcceptLanguage: id.AcceptLanguage,
		})
	}
	return fetch.NewRotation(identities, c.Proxies, c.RotateAfter)
}

// CrawlOptions maps the configuration onto crawler options.
func (c *Config) CrawlOptions() crawling.Options {
	return crawling.Options{
		Query:          c.Query,
		Areas:          c.Areas,
		Buckets:        types.ExperienceBuckets(),
		Target:         c.Target,
		Workers:        c.Workers,
		OnlyWithSalary: c.OnlyWithSalary,
		SkipEmployers:  c.SkipEmployers,
		Limits: crawling.Limits{
			MaxPagesPerShard: c.MaxPages,
			MaxTotalPages:    c.MaxTotalPages,
		},
	}
}

// Engine builds the feature engine with the configured currency rates layered
// over the defaults and the configured primary-domain policy.
func (c *Config) Engine() *features.Engine {
	rates := features.DefaultRatesRUB()
	for code, rate := range c.CurrencyRates {
		rates[strings.ToUpper(code)] = rate
	}
	var policy features.DomainPolicy = features.PriorityPolicy{Order: features.DefaultDomainPriority}
	if c.DomainPolicy == DomainPolicyAlphabetical {
		policy = features.AlphabeticalPolicy{}
	}
	return features.New(nil, rates, policy)
}
