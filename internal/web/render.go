package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"krenke/internal/auth"
	"krenke/internal/model"
	"krenke/internal/reseller"
)

//go:embed templates
var templateFS embed.FS

const consentCookie = "krenke-cookie-consent"

// page é o dado de topo de todo template.
type page struct {
	Title       string
	Path        string
	Identity    *auth.Identity
	HeadScripts []model.Script
	BodyScripts []model.Script
	ShowConsent bool
	Categories  []string
	Data        any
}

// richPolicy limpa o HTML editado no painel (artigos e especificações).
// Só os scripts do super administrador passam sem filtro.
var richPolicy = bluemonday.UGCPolicy()

var funcs = template.FuncMap{
	"rawHTML":  func(s string) template.HTML { return template.HTML(s) },
	"richHTML": func(s string) template.HTML { return template.HTML(richPolicy.Sanitize(s)) },
	"brl":      reseller.FormatBRL,
	"kg":       reseller.FormatKg,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006 15:04")
	},
	"join": strings.Join,
	"has": func(list []string, v string) bool {
		for _, x := range list {
			if x == v {
				return true
			}
		}
		return false
	},
	"lines": func(s string) []string {
		var out []string
		for _, l := range strings.Split(s, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		return out
	},
}

// loadPages compila cada página com o layout da sua área (site ou admin).
func loadPages() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, area := range []string{"site", "admin"} {
		files, err := fs.Glob(templateFS, "templates/"+area+"/*.html")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			t, err := template.New(path.Base(f)).Funcs(funcs).ParseFS(templateFS,
				"templates/partials.html", "templates/"+area+".html", f)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", f, err)
			}
			pages[area+"/"+strings.TrimSuffix(path.Base(f), ".html")] = t
		}
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := s.pages[name]
	if !ok {
		s.Log.Error("template inexistente", zap.String("template", name))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	p := page{
		Title:      title,
		Path:       r.URL.Path,
		Categories: model.Categories,
		Data:       data,
	}
	if id, ok := identityFrom(r.Context()); ok {
		p.Identity = &id
	}
	if strings.HasPrefix(name, "site/") {
		if _, err := r.Cookie(consentCookie); err != nil {
			p.ShowConsent = true
		}
		p.HeadScripts, p.BodyScripts = s.activeScripts(r)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.Log.Error("erro ao renderizar", zap.String("template", name), zap.Error(err))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) activeScripts(r *http.Request) (head, body []model.Script) {
	if s.Scripts == nil {
		return nil, nil
	}
	scripts, err := s.Scripts.ListActive(r.Context())
	if err != nil {
		s.Log.Warn("falha ao carregar scripts", zap.Error(err))
		return nil, nil
	}
	for _, sc := range scripts {
		if sc.Placement == model.PlacementHead {
			head = append(head, sc)
		} else {
			body = append(body, sc)
		}
	}
	return head, body
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.Log.Error("erro no handler", zap.String("path", r.URL.Path), zap.Error(err))
	s.render(w, r, http.StatusInternalServerError, "site/error", "Erro", "Não foi possível concluir a operação. Tente novamente.")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "site/notfound", "Página não encontrada", nil)
}

func (s *Server) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, name, title, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
