package e2e

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

type Scenario struct {
	Name        string
	Description string
	Run         func(s *Session) error
}

type Result struct {
	Scenario string
	Err      error
	Duration time.Duration
}

func (r Result) Passed() bool { return r.Err == nil }

// Select filtra os cenários cujo nome casa com pattern. Padrão vazio devolve todos.
func Select(all []Scenario, pattern string) ([]Scenario, error) {
	if pattern == "" {
		return all, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid -run pattern: %w", err)
	}
	var out []Scenario
	for _, sc := range all {
		if re.MatchString(sc.Name) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// Failed conta os cenários que não passaram.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}

// Runner mantém um único navegador; cada cenário ganha um contexto anônimo próprio.
type Runner struct {
	cfg      *Config
	log      *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewRunner(cfg *Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

func (r *Runner) Start(ctx context.Context) error {
	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(r.cfg.Headless)
		if r.cfg.BrowserBin != "" {
			l = l.Bin(r.cfg.BrowserBin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		r.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		r.cleanupLauncher()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	r.browser = browser
	r.log.Info("navegador conectado", zap.String("base_url", r.cfg.BaseURL), zap.Bool("headless", r.cfg.Headless))
	return nil
}

func (r *Runner) Close() error {
	var err error
	if r.browser != nil {
		// Navegador externo (ControlURL) fica aberto.
		if r.launcher != nil {
			err = r.browser.Close()
		}
		r.browser = nil
	}
	r.cleanupLauncher()
	return err
}

func (r *Runner) cleanupLauncher() {
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
}

// Run executa os cenários em sequência e registra o resultado de cada um.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			results = append(results, Result{Scenario: sc.Name, Err: ctx.Err()})
			continue
		}
		start := time.Now()
		err := r.runOne(ctx, sc)
		res := Result{Scenario: sc.Name, Err: err, Duration: time.Since(start)}
		results = append(results, res)

		if err != nil {
			r.log.Error("cenário falhou", zap.String("scenario", sc.Name), zap.Duration("duration", res.Duration), zap.Error(err))
			continue
		}
		r.log.Info("cenário concluído", zap.String("scenario", sc.Name), zap.Duration("duration", res.Duration))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) error {
	if r.browser == nil {
		return errors.New("runner not started")
	}
	incognito, err := r.browser.Context(ctx).Incognito()
	if err != nil {
		return fmt.Errorf("incognito context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if len(r.cfg.Viewports) > 0 {
		v := r.cfg.Viewports[len(r.cfg.Viewports)-1]
		_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: v.Width, Height: v.Height, DeviceScaleFactor: 1, Mobile: v.Mobile})
	}

	return sc.Run(newSession(r.cfg, r.log, page, sc.Name))
}
