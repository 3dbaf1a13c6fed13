package e2e

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	consentCookie = "krenke-cookie-consent"
	quoteSuccess  = "Orçamento enviado com sucesso"
)

// Scenarios devolve a suíte completa, na ordem de execução.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "home-load", Description: "página inicial carrega com a chamada de orçamento", Run: homeLoad},
		{Name: "quote-multiple-products", Description: "orçamento com vários produtos", Run: quoteMultipleProducts},
		{Name: "quote-validation", Description: "validação do formulário de orçamento", Run: quoteValidation},
		{Name: "admin-product-crud", Description: "criar, editar e excluir produto no painel", Run: adminProductCRUD},
		{Name: "admin-blog", Description: "publicar artigo no blog", Run: adminBlog},
		{Name: "lead-dashboard", Description: "orçamento aparece no dashboard", Run: leadDashboard},
		{Name: "role-access", Description: "super admin acessa usuários e configurações", Run: roleAccess},
		{Name: "auth-security", Description: "painel exige login e logout encerra a sessão", Run: authSecurity},
		{Name: "responsive", Description: "páginas sem rolagem horizontal em todos os tamanhos", Run: responsive},
		{Name: "showcase", Description: "vitrine de produtos com texto alternativo nas imagens", Run: showcase},
		{Name: "script-injection", Description: "script ativo é injetado no site", Run: scriptInjection},
		{Name: "cookie-consent", Description: "recusa de cookies é lembrada", Run: cookieConsent},
	}
}

func homeLoad(s *Session) error {
	s.Open("/")
	s.AcceptCookies()
	s.Open("/")
	return s.ExpectVisible("#hero-quote",
		"the home page did not show the 'Fazer Orçamento' call to action after loading")
}

// submitQuote preenche o formulário com os primeiros n produtos marcados.
func submitQuote(s *Session, name string, n int) {
	s.Open("/orcamento")
	s.AcceptCookies()
	for i := 0; i < n; i++ {
		s.ClickNth("#quote-form .quote-product input", i)
	}
	s.Fill("#quote-form #name", name)
	s.Fill("#quote-form #phone", "(47) 99999-9999")
	s.Fill("#quote-form #email", "e2e+"+s.Stamp()+"@krenke.com.br")
	s.Fill("#quote-form #message", "Orçamento gerado pela suíte de testes.")
	s.Submit("#quote-submit")
}

func quoteMultipleProducts(s *Session) error {
	s.Open("/")
	s.AcceptCookies()
	s.Open("/produtos")
	submitQuote(s, "Cliente Teste "+s.Stamp(), 3)
	return s.ExpectText("#quote-success", quoteSuccess,
		"expected the confirmation 'Orçamento enviado com sucesso' after submitting a quote with several products, but it did not appear")
}

func quoteValidation(s *Session) error {
	s.Open("/orcamento")
	s.AcceptCookies()
	s.Submit("#quote-submit")

	s.Fill("#quote-form #name", "Test User")
	s.Fill("#quote-form #phone", "12345")
	s.Fill("#quote-form #email", "invalid-email")
	s.Submit("#quote-submit")
	return s.ExpectVisible(`#quote-form .error[data-field="phone"]`,
		"expected the quote form to reject the short phone number, but no phone error was shown")
}

func adminProductCRUD(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}
	name := "Produto Teste E2E " + s.Stamp()
	id := "produto-teste-e2e-" + s.Stamp()

	s.Login(cfg.Admin)
	s.Open("/pgadmin/produtos")
	s.Submit("#new-product")
	s.Fill("#product-form #name", name)
	s.Fill("#product-form #description", "Criado pela suíte de testes.")
	s.Submit("#product-save")

	s.Open("/pgadmin/produtos/" + id + "/editar")
	s.Fill("#product-form #description", "Editado pela suíte de testes.")
	s.Submit("#product-save")

	s.AutoConfirm()
	s.Submit(fmt.Sprintf(`#admin-products tr[data-id=%q] form button`, id))
	return s.ExpectAbsent("#admin-products", fmt.Sprintf(`#admin-products tr[data-id=%q]`, id),
		fmt.Sprintf("expected product %q to be created, edited and removed from the admin list, but it is still listed or the list did not load", id))
}

func adminBlog(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}
	title := "Artigo de Teste " + s.Stamp()

	s.Login(cfg.Admin)
	s.Open("/pgadmin/blog")
	s.Submit("#new-post")
	s.Fill("#post-form #title", title)
	s.Fill("#post-form #content", "<p>Conteúdo de teste sobre playgrounds e segurança.</p>")
	s.Click(`#post-form input[name="published"]`)
	s.Submit("#post-save")
	return s.ExpectText("#admin-posts", title,
		fmt.Sprintf("expected the new article %q in the blog list after saving, but it was not found", title))
}

func leadDashboard(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}
	name := "Lead E2E " + s.Stamp()

	s.Open("/")
	s.AcceptCookies()
	submitQuote(s, name, 1)

	s.Login(cfg.Admin)
	s.Open("/pgadmin")
	return s.ExpectText("#latest-leads", name,
		fmt.Sprintf("expected lead %q among the latest quotes on the dashboard, but it was not listed", name))
}

func roleAccess(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}

	// Usuário restrito não deve enxergar a gestão de usuários.
	if !cfg.Restricted.Empty() {
		s.Login(cfg.Restricted)
		s.Open("/pgadmin/usuarios")
		if s.Has("#admin-users") {
			return s.Fail("restricted user %s could open the user management page", cfg.Restricted.Email)
		}
		s.Open("/pgadmin")
		s.Logout()
	}

	s.Login(cfg.Admin)
	s.Click(`aside nav a[href="/pgadmin/produtos"]`)
	s.Click(`aside nav a[href="/pgadmin/blog"]`)
	s.Click(`aside nav a[href="/pgadmin/orcamentos"]`)
	s.Open("/pgadmin/orcamentos")
	s.Open("/pgadmin/scripts")
	s.Open("/pgadmin/usuarios")
	return s.ExpectVisible("#admin-users",
		"expected the 'Usuários' admin page to be visible for the super admin, but it did not appear")
}

func authSecurity(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}

	s.Open("/pgadmin")
	s.Fill("#login-form #email", cfg.Admin.Email)
	s.Fill("#login-form #password", cfg.Admin.Password+"-errada")
	s.Submit("#login-submit")

	s.Login(cfg.Admin)
	s.Open("/pgadmin")
	s.Logout()
	s.Open("/pgadmin")
	return s.ExpectVisible("#login-form",
		"expected /pgadmin to require a new login after signing out, but the panel was still reachable")
}

func responsive(s *Session) error {
	var overflow []string
	for _, v := range s.Config().Viewports {
		s.SetViewport(v)
		for _, path := range []string{"/", "/produtos", "/orcamento"} {
			s.Open(path)
			s.AcceptCookies()
			res, err := s.Eval(`() => document.documentElement.scrollWidth <= window.innerWidth + 1`)
			if err != nil {
				s.skipped("measure "+path, err)
				continue
			}
			if !res.Value.Bool() {
				overflow = append(overflow, fmt.Sprintf("%s %dx%d %s", v.Name, v.Width, v.Height, path))
			}
		}
	}
	if len(overflow) > 0 {
		return s.Fail("pages scroll horizontally on: %s", strings.Join(overflow, ", "))
	}
	return nil
}

func showcase(s *Session) error {
	s.Open("/")
	s.AcceptCookies()
	s.Open("/produtos?categoria=" + url.QueryEscape("Playgrounds Completos"))
	s.Open("/produtos")
	res, err := s.Eval(`() => {
		const imgs = document.querySelectorAll('#product-grid img');
		if (imgs.length === 0) return -1;
		return Array.from(imgs).filter(i => !(i.getAttribute('alt') || '').trim()).length;
	}`)
	if err != nil {
		return s.Fail("could not inspect the product showcase: %v", err)
	}
	switch missing := res.Value.Int(); {
	case missing < 0:
		return s.Fail("the product showcase did not list any product")
	case missing > 0:
		return s.Fail("%d showcase images have no alternative text", missing)
	}
	return nil
}

func scriptInjection(s *Session) error {
	cfg := s.Config()
	if cfg.Admin.Empty() {
		return s.Fail("admin credentials are not configured (E2E_ADMIN_EMAIL / E2E_ADMIN_PASSWORD)")
	}
	name := "Tag E2E " + s.Stamp()
	marker := fmt.Sprintf(`meta[name="e2e-check"][content=%q]`, s.Stamp())

	s.Login(cfg.Admin)
	s.Open("/pgadmin/scripts")
	s.Fill("#script-form #name", name)
	s.Fill("#script-form #content", fmt.Sprintf(`<meta name="e2e-check" content="%s">`, s.Stamp()))
	s.Submit("#script-save")

	s.Open("/")
	s.AcceptCookies()
	result := s.ExpectPresent(marker,
		fmt.Sprintf("expected the active script %q to be injected into the public page head, but it was not found", name))

	// Remove o script de teste para não sujar o site.
	s.Open("/pgadmin/scripts")
	s.AutoConfirm()
	if res, err := s.Eval(fmt.Sprintf(`() => {
		const row = Array.from(document.querySelectorAll('#admin-scripts tr')).find(r => r.textContent.includes(%q));
		return row ? row.dataset.id : '';
	}`, name)); err == nil && res.Value.Str() != "" {
		s.Submit(fmt.Sprintf(`#admin-scripts tr[data-id=%q] form[action$="/excluir"] button`, res.Value.Str()))
	}
	return result
}

func cookieConsent(s *Session) error {
	s.Open("/")
	if !s.Has("#cookie-banner") {
		return s.Fail("the cookie consent banner was not shown on the first visit")
	}
	s.Submit("#cookie-decline")
	s.Open("/")

	value, _ := s.Cookie(consentCookie)
	if s.Has("#cookie-banner") || value != "declined" {
		return s.Fail("expected the banner to stay hidden after declining cookies (cookie %s=%q)", consentCookie, value)
	}
	return nil
}
