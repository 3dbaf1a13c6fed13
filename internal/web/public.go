package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/repository"
	"krenke/internal/reseller"
)

const (
	featuredProducts = 6
	latestPosts      = 3
)

type homeData struct {
	Featured []model.Product
	Posts    []model.Post
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	posts, err := s.Posts.ListPublished(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	var featured []model.Product
	for _, p := range products {
		if p.Image != "" {
			featured = append(featured, p)
		}
		if len(featured) == featuredProducts {
			break
		}
	}
	if len(posts) > latestPosts {
		posts = posts[:latestPosts]
	}
	s.render(w, r, http.StatusOK, "site/home", "Krenke Brinquedos Pedagógicos", homeData{Featured: featured, Posts: posts})
}

type productsData struct {
	Products []model.Product
	Category string
	Query    string
}

// filterProducts aplica a categoria (apenas as conhecidas) e a busca por nome ou categoria.
func filterProducts(products []model.Product, category, query string) []model.Product {
	if !model.IsCategory(category) {
		category = ""
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := []model.Product{}
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	category := r.URL.Query().Get("categoria")
	if !model.IsCategory(category) {
		category = ""
	}
	query := r.URL.Query().Get("q")
	s.render(w, r, http.StatusOK, "site/products", "Produtos", productsData{
		Products: filterProducts(products, category, query),
		Category: category,
		Query:    query,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "site/product", p.Name, p)
}

type blogData struct {
	Posts []model.Post
	Query string
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Posts.ListPublished(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	query := r.URL.Query().Get("q")
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := []model.Post{}
		for _, p := range posts {
			if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Excerpt), q) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}
	s.render(w, r, http.StatusOK, "site/blog", "Blog", blogData{Posts: posts, Query: query})
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.Posts.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !p.Published) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "site/post", p.Title, p)
}

type resellerData struct {
	Products   []model.ResellerProduct
	Categories []string
	Category   string
	Query      string
	Error      string
}

func (s *Server) handleReseller(w http.ResponseWriter, r *http.Request) {
	data := resellerData{
		Category: r.URL.Query().Get("categoria"),
		Query:    r.URL.Query().Get("q"),
	}
	if data.Category == "" {
		data.Category = reseller.AllCategories
	}

	var products []model.ResellerProduct
	var err error
	if s.Reseller == nil {
		err = errors.New("reseller source not configured")
	} else {
		products, err = s.Reseller.Products(r.Context())
	}
	if err != nil {
		s.Log.Warn("catálogo revendedor indisponível", zap.Error(err))
		data.Error = "Não foi possível carregar os dados do catálogo."
		data.Categories = []string{reseller.AllCategories}
	} else {
		data.Categories = reseller.Categories(products)
		data.Products = reseller.Filter(products, data.Query, data.Category)
	}
	s.render(w, r, http.StatusOK, "site/reseller", "Área do Revendedor", data)
}

const consentMaxAge = 365 * 24 * 60 * 60

func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	decision := r.FormValue("decision")
	if decision != "accepted" && decision != "declined" {
		http.Error(w, "decisão inválida", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     consentCookie,
		Value:    decision,
		Path:     "/",
		MaxAge:   consentMaxAge,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, safeNext(r.FormValue("next"), "/"))
}

// safeNext aceita apenas caminhos locais.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}
