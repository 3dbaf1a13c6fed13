// Package e2e conduz um navegador headless contra uma instância do site
// e percorre os fluxos principais (orçamento, painel, consentimento).
package e2e

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "http://localhost:3000"

type Config struct {
	BaseURL    string `yaml:"base_url"`
	Headless   bool   `yaml:"headless"`
	BrowserBin string `yaml:"browser_bin"`
	// ControlURL conecta num Chrome já aberto em vez de lançar um novo.
	ControlURL string `yaml:"control_url"`

	NavigationTimeout string `yaml:"navigation_timeout"`
	ActionTimeout     string `yaml:"action_timeout"`
	ExpectTimeout     string `yaml:"expect_timeout"`
	StepWait          string `yaml:"step_wait"`

	Admin      Credentials `yaml:"admin"`
	Restricted Credentials `yaml:"restricted"`

	Viewports []Viewport `yaml:"viewports"`
}

type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

type Viewport struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Mobile bool   `yaml:"mobile"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		Headless:          true,
		NavigationTimeout: "10s",
		ActionTimeout:     "5s",
		ExpectTimeout:     "3s",
		StepWait:          "1s",
		Viewports: []Viewport{
			{Name: "mobile", Width: 375, Height: 667, Mobile: true},
			{Name: "tablet", Width: 768, Height: 1024, Mobile: true},
			{Name: "desktop", Width: 1280, Height: 720},
		},
	}
}

// LoadConfig lê o YAML em path. Arquivo ausente não é erro: valem os padrões
// e as variáveis E2E_*.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse e2e config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read e2e config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("E2E_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("E2E_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid E2E_HEADLESS %q: %w", v, err)
		}
		c.Headless = b
	}
	if v := os.Getenv("E2E_BROWSER_BIN"); v != "" {
		c.BrowserBin = v
	}
	if v := os.Getenv("E2E_CONTROL_URL"); v != "" {
		c.ControlURL = v
	}
	if v := os.Getenv("E2E_ADMIN_EMAIL"); v != "" {
		c.Admin.Email = v
	}
	if v := os.Getenv("E2E_ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
	if v := os.Getenv("E2E_USER_EMAIL"); v != "" {
		c.Restricted.Email = v
	}
	if v := os.Getenv("E2E_USER_PASSWORD"); v != "" {
		c.Restricted.Password = v
	}
	return nil
}

func (c *Config) NavigationTimeoutDuration() time.Duration {
	return parseDuration(c.NavigationTimeout, 10*time.Second)
}

func (c *Config) ActionTimeoutDuration() time.Duration {
	return parseDuration(c.ActionTimeout, 5*time.Second)
}

func (c *Config) ExpectTimeoutDuration() time.Duration {
	return parseDuration(c.ExpectTimeout, 3*time.Second)
}

func (c *Config) StepWaitDuration() time.Duration {
	return parseDuration(c.StepWait, time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
