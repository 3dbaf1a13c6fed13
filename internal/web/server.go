package web

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"krenke/internal/auth"
	"krenke/internal/blog"
	"krenke/internal/model"
	"krenke/internal/observability"
)

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, originalID string, p model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type PostStore interface {
	ListPublished(ctx context.Context) ([]model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Get(ctx context.Context, id string) (model.Post, error)
	GetBySlug(ctx context.Context, slug string) (model.Post, error)
	Create(ctx context.Context, p model.Post) error
	Update(ctx context.Context, p model.Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type LeadStore interface {
	Create(ctx context.Context, l model.Lead) error
	List(ctx context.Context) ([]model.Lead, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ScriptStore interface {
	ListActive(ctx context.Context) ([]model.Script, error)
	List(ctx context.Context) ([]model.Script, error)
	Create(ctx context.Context, s model.Script) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id string) error
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, auth.Identity, error)
	SignUp(ctx context.Context, email, password string) (model.User, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
	RoleFor(email string) model.Role
}

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type ResellerSource interface {
	Products(ctx context.Context) ([]model.ResellerProduct, error)
}

// Deps reúne o que o servidor precisa. Limiter, Reseller, Summarizer e
// AssetsFS são opcionais.
type Deps struct {
	Products ProductStore
	Posts    PostStore
	Leads    LeadStore
	Scripts  ScriptStore
	Users    UserStore
	Auth     Authenticator

	Limiter    Limiter
	Reseller   ResellerSource
	Summarizer blog.Summarizer

	// AssetsFS é indexado para ligar imagens aos produtos.
	AssetsFS fs.FS
	// UploadDir recebe os envios de /api/upload e é servido em /assets/.
	UploadDir string

	AllowSignup   bool
	SecureCookies bool
	Log           *zap.Logger
	Now           func() time.Time

	// TrustedProxies são os proxies cujo X-Forwarded-For é aceito.
	TrustedProxies []netip.Prefix
}

type Server struct {
	Deps
	pages map[string]*template.Template
}

func NewServer(d Deps) (*Server, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Server{Deps: d, pages: pages}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /produtos", s.handleProducts)
	mux.HandleFunc("GET /produtos/{id}", s.handleProduct)
	mux.HandleFunc("GET /orcamento", s.handleQuoteForm)
	mux.HandleFunc("POST /orcamento", s.handleQuoteSubmit)
	mux.HandleFunc("GET /blog", s.handleBlog)
	mux.HandleFunc("GET /blog/{slug}", s.handleBlogPost)
	mux.HandleFunc("GET /revendedor", s.handleReseller)
	mux.HandleFunc("GET /sobre", s.static("site/about", "Sobre a Krenke"))
	mux.HandleFunc("GET /downloads", s.static("site/downloads", "Downloads"))
	mux.HandleFunc("GET /politica-de-privacidade", s.static("site/privacy", "Política de Privacidade"))
	mux.HandleFunc("GET /termos", s.static("site/terms", "Termos de Uso"))
	mux.HandleFunc("POST /cookies", s.handleConsent)

	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /cadastro", s.handleSignUp)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.Handle("GET /admin", http.RedirectHandler("/pgadmin", http.StatusFound))
	mux.Handle("GET /admin/login", http.RedirectHandler("/login", http.StatusFound))

	mux.HandleFunc("GET /api/products", s.handleAPIProducts)
	mux.HandleFunc("POST /api/products/update", s.requireAPIAuth(s.handleAPIUpdateProduct))
	mux.HandleFunc("POST /api/upload", s.requireAPIAuth(s.handleAPIUpload))

	if s.UploadDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.UploadDir))))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /pgadmin", s.requireAuth(s.handleDashboard))

	mux.HandleFunc("GET /pgadmin/produtos", s.requireAuth(s.handleAdminProducts))
	mux.HandleFunc("GET /pgadmin/produtos/novo", s.requireAuth(s.handleAdminProductNew))
	mux.HandleFunc("POST /pgadmin/produtos", s.requireAuth(s.handleAdminProductCreate))
	mux.HandleFunc("POST /pgadmin/produtos/colar", s.requireAuth(s.handleAdminProductPaste))
	mux.HandleFunc("POST /pgadmin/produtos/imagens", s.requireAuth(s.handleAdminProductImages))
	mux.HandleFunc("GET /pgadmin/produtos/{id}/editar", s.requireAuth(s.handleAdminProductEdit))
	mux.HandleFunc("POST /pgadmin/produtos/{id}", s.requireAuth(s.handleAdminProductUpdate))
	mux.HandleFunc("POST /pgadmin/produtos/{id}/excluir", s.requireAuth(s.handleAdminProductDelete))

	mux.HandleFunc("GET /pgadmin/blog", s.requireAuth(s.handleAdminPosts))
	mux.HandleFunc("GET /pgadmin/blog/novo", s.requireAuth(s.handleAdminPostNew))
	mux.HandleFunc("POST /pgadmin/blog", s.requireAuth(s.handleAdminPostCreate))
	mux.HandleFunc("GET /pgadmin/blog/{id}/editar", s.requireAuth(s.handleAdminPostEdit))
	mux.HandleFunc("POST /pgadmin/blog/{id}", s.requireAuth(s.handleAdminPostUpdate))
	mux.HandleFunc("POST /pgadmin/blog/{id}/publicar", s.requireAuth(s.handleAdminPostToggle))
	mux.HandleFunc("POST /pgadmin/blog/{id}/excluir", s.requireAuth(s.handleAdminPostDelete))

	mux.HandleFunc("GET /pgadmin/orcamentos", s.requireAuth(s.handleAdminLeads))
	mux.HandleFunc("GET /pgadmin/leads", s.requireAuth(s.handleAdminLeads))
	mux.HandleFunc("GET /pgadmin/orcamentos.csv", s.requireAuth(s.handleAdminLeadsCSV))
	mux.HandleFunc("POST /pgadmin/orcamentos/{id}/excluir", s.requireAuth(s.handleAdminLeadDelete))

	mux.HandleFunc("GET /pgadmin/scripts", s.requireSuper(s.handleAdminScripts))
	mux.HandleFunc("POST /pgadmin/scripts", s.requireSuper(s.handleAdminScriptCreate))
	mux.HandleFunc("POST /pgadmin/scripts/{id}/ativar", s.requireSuper(s.handleAdminScriptToggle))
	mux.HandleFunc("POST /pgadmin/scripts/{id}/excluir", s.requireSuper(s.handleAdminScriptDelete))

	mux.HandleFunc("GET /pgadmin/usuarios", s.requireSuper(s.handleAdminUsers))
	mux.HandleFunc("POST /pgadmin/usuarios", s.requireSuper(s.handleAdminUserCreate))
	mux.HandleFunc("POST /pgadmin/usuarios/{id}/excluir", s.requireSuper(s.handleAdminUserDelete))

	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = s.withSession(h)
	h = s.withLogging(h)
	h = s.withRecover(h)
	return observability.Middleware(routeLabel(mux), h)
}

// routeLabel usa o padrão registrado no mux como rótulo das métricas.
func routeLabel(mux *http.ServeMux) func(*http.Request) string {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			return "unmatched"
		}
		return pattern
	}
}
