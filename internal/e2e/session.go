package e2e

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// AssertionError é a falha terminal de um cenário.
type AssertionError struct {
	Scenario string
	Message  string
}

func (e *AssertionError) Error() string {
	if e.Scenario == "" {
		return "Test case failed: " + e.Message
	}
	return fmt.Sprintf("Test case failed (%s): %s", e.Scenario, e.Message)
}

// Session é uma aba isolada (contexto anônimo) usada por um único cenário.
// Os passos intermediários são tolerantes: timeouts viram log e o cenário
// segue até a verificação final.
type Session struct {
	cfg      *Config
	log      *zap.Logger
	page     *rod.Page
	scenario string
	stamp    string
}

func newSession(cfg *Config, log *zap.Logger, page *rod.Page, scenario string) *Session {
	return &Session{
		cfg:      cfg,
		log:      log.With(zap.String("scenario", scenario)),
		page:     page,
		scenario: scenario,
		stamp:    time.Now().Format("20060102150405"),
	}
}

func (s *Session) Config() *Config { return s.cfg }

// Stamp identifica os registros criados nesta execução.
func (s *Session) Stamp() string { return s.stamp }

func (s *Session) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.cfg.BaseURL + path
}

func (s *Session) Fail(format string, args ...any) error {
	return &AssertionError{Scenario: s.scenario, Message: fmt.Sprintf(format, args...)}
}

func (s *Session) skipped(step string, err error) {
	s.log.Debug("passo ignorado", zap.String("step", step), zap.Error(err))
}

// Pause é a espera fixa entre ações.
func (s *Session) Pause() {
	time.Sleep(s.cfg.StepWaitDuration())
}

func (s *Session) Open(path string) {
	url := s.URL(path)
	if err := s.page.Timeout(s.cfg.NavigationTimeoutDuration()).Navigate(url); err != nil {
		s.skipped("navigate "+url, err)
		return
	}
	if err := s.page.Timeout(s.cfg.NavigationTimeoutDuration()).WaitLoad(); err != nil {
		s.skipped("wait load "+url, err)
	}
}

func (s *Session) element(selector string) (*rod.Element, error) {
	el, err := s.page.Timeout(s.cfg.ActionTimeoutDuration()).Element(selector)
	if err != nil {
		return nil, err
	}
	return el.CancelTimeout().Timeout(s.cfg.ActionTimeoutDuration()), nil
}

func (s *Session) Click(selector string) {
	s.Pause()
	el, err := s.element(selector)
	if err != nil {
		s.skipped("click "+selector, err)
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.skipped("click "+selector, err)
	}
}

// Submit clica num elemento que dispara navegação e espera a página nova.
func (s *Session) Submit(selector string) {
	s.Pause()
	el, err := s.element(selector)
	if err != nil {
		s.skipped("submit "+selector, err)
		return
	}
	wait := s.page.Timeout(s.cfg.NavigationTimeoutDuration()).WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.skipped("submit "+selector, err)
		return
	}
	wait()
}

// ClickNth marca o n-ésimo elemento que casa com selector (checkbox de produto, por exemplo).
func (s *Session) ClickNth(selector string, n int) {
	s.Pause()
	els, err := s.page.Timeout(s.cfg.ActionTimeoutDuration()).Elements(selector)
	if err != nil {
		s.skipped("click nth "+selector, err)
		return
	}
	if n >= len(els) {
		s.skipped("click nth "+selector, fmt.Errorf("only %d elements", len(els)))
		return
	}
	if err := els[n].Timeout(s.cfg.ActionTimeoutDuration()).Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.skipped("click nth "+selector, err)
	}
}

// Fill substitui o conteúdo do campo.
func (s *Session) Fill(selector, text string) {
	s.Pause()
	el, err := s.element(selector)
	if err != nil {
		s.skipped("fill "+selector, err)
		return
	}
	if err := el.SelectAllText(); err != nil {
		s.skipped("select "+selector, err)
	}
	if err := el.Input(text); err != nil {
		s.skipped("fill "+selector, err)
	}
}

func (s *Session) SetViewport(v Viewport) {
	err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: 1,
		Mobile:            v.Mobile,
	})
	if err != nil {
		s.skipped("viewport "+v.Name, err)
	}
}

// AutoConfirm faz window.confirm responder sim, para os botões de exclusão.
func (s *Session) AutoConfirm() {
	if _, err := s.page.Eval(`() => { window.confirm = () => true }`); err != nil {
		s.skipped("auto confirm", err)
	}
}

func (s *Session) AcceptCookies() {
	if ok, _, _ := s.page.Has("#cookie-accept"); !ok {
		return
	}
	s.Submit("#cookie-accept")
}

func (s *Session) Login(c Credentials) {
	s.Open("/login")
	s.Fill("#login-form #email", c.Email)
	s.Fill("#login-form #password", c.Password)
	s.Submit("#login-submit")
}

func (s *Session) Logout() {
	s.Submit("#logout")
}

// Eval roda uma função JS na página e devolve o valor bruto.
func (s *Session) Eval(js string) (*proto.RuntimeRemoteObject, error) {
	return s.page.Timeout(s.cfg.ActionTimeoutDuration()).Eval(js)
}

func (s *Session) Cookie(name string) (string, bool) {
	cookies, err := s.page.Cookies(nil)
	if err != nil {
		s.skipped("cookies", err)
		return "", false
	}
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (s *Session) Has(selector string) bool {
	ok, _, err := s.page.Has(selector)
	if err != nil {
		s.skipped("has "+selector, err)
		return false
	}
	return ok
}

// ExpectVisible espera selector ficar visível dentro do tempo de verificação.
func (s *Session) ExpectVisible(selector, message string) error {
	el, err := s.page.Timeout(s.cfg.ExpectTimeoutDuration()).Element(selector)
	if err != nil {
		return s.Fail("%s", message)
	}
	if err := el.Timeout(s.cfg.ExpectTimeoutDuration()).WaitVisible(); err != nil {
		return s.Fail("%s", message)
	}
	return nil
}

// ExpectText exige que o texto de selector contenha want.
func (s *Session) ExpectText(selector, want, message string) error {
	el, err := s.page.Timeout(s.cfg.ExpectTimeoutDuration()).Element(selector)
	if err != nil {
		return s.Fail("%s", message)
	}
	text, err := el.Text()
	if err != nil || !strings.Contains(text, want) {
		return s.Fail("%s", message)
	}
	return nil
}

// ExpectPresent aceita elementos invisíveis (tags do <head>).
func (s *Session) ExpectPresent(selector, message string) error {
	if _, err := s.page.Timeout(s.cfg.ExpectTimeoutDuration()).Element(selector); err != nil {
		return s.Fail("%s", message)
	}
	return nil
}

// ExpectAbsent exige que container esteja na página e selector não.
func (s *Session) ExpectAbsent(container, selector, message string) error {
	if !s.Has(container) || s.Has(selector) {
		return s.Fail("%s", message)
	}
	return nil
}
