package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"krenke/internal/auth"
	"krenke/internal/model"
)

const (
	superEmail      = "admin@krenke.com.br"
	restrictedEmail = "vendas@krenke.com.br"
	testPassword    = "segredo123"
)

type testEnv struct {
	t        *testing.T
	h        http.Handler
	srv      *Server
	products *memProducts
	posts    *memPosts
	leads    *memLeads
	scripts  *memScripts
	users    *memUsers
	sessions *memSessions
	auth     *auth.Service
}

func seedProducts() []model.Product {
	return []model.Product{
		{ID: "playground-castelo", Name: "Playground Castelo", Category: "Playgrounds Completos", Image: "/assets/castelo.jpg", Specs: "<p>Altura: 3m</p>", Images: []string{}},
		{ID: "balanco-duplo", Name: "Balanço Duplo", Category: "Brinquedos Avulsos", Images: []string{}},
		{ID: "banco-de-praca", Name: "Banco de Praça", Category: "Mobiliário Urbano e Jardim", Images: []string{}},
	}
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	env := &testEnv{
		t:        t,
		products: newMemProducts(seedProducts()...),
		posts:    &memPosts{},
		leads:    &memLeads{},
		scripts:  &memScripts{},
		users:    &memUsers{items: map[string]model.User{}},
		sessions: &memSessions{ids: map[string]bool{}},
	}
	env.auth = auth.NewService(env.users, env.sessions, strings.Repeat("k", 32), time.Hour, superEmail)
	for _, email := range []string{superEmail, restrictedEmail} {
		_, err := env.auth.SignUp(context.Background(), email, testPassword)
		require.NoError(t, err)
	}

	d := Deps{
		Products: env.products,
		Posts:    env.posts,
		Leads:    env.leads,
		Scripts:  env.scripts,
		Users:    env.users,
		Auth:     env.auth,
	}
	for _, o := range opts {
		o(&d)
	}
	srv, err := NewServer(d)
	require.NoError(t, err)
	env.srv = srv
	env.h = srv.Handler()
	return env
}

func (e *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, nil, cookies...)
}

func (e *testEnv) post(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return e.do(http.MethodPost, target, form, cookies...)
}

// login devolve o cookie de sessão do usuário.
func (e *testEnv) login(email string) *http.Cookie {
	e.t.Helper()
	rec := e.post("/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(e.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return findCookie(e.t, rec, sessionCookie)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}
