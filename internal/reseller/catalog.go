package reseller

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"krenke/internal/model"
)

const AllCategories = "Todos"

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Catalog busca a planilha publicada e mantém o resultado em memória por TTL.
type Catalog struct {
	URL    string
	TTL    time.Duration
	Client *http.Client
	Log    *zap.Logger
	Now    func() time.Time

	mu        sync.Mutex
	products  []model.ResellerProduct
	fetchedAt time.Time
}

func NewCatalog(url string, ttl time.Duration, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{URL: url, TTL: ttl, Client: httpClient, Log: log, Now: time.Now}
}

func (c *Catalog) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Products devolve o cache enquanto válido. Se a busca falhar e houver
// cache antigo, ele é devolvido.
func (c *Catalog) Products(ctx context.Context) ([]model.ResellerProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.products != nil && c.now().Sub(c.fetchedAt) < c.TTL {
		return c.products, nil
	}

	products, err := c.fetch(ctx)
	if err != nil {
		if c.products != nil {
			c.Log.Warn("falha ao atualizar catálogo revendedor, usando cache", zap.Error(err))
			return c.products, nil
		}
		return nil, err
	}
	c.products = products
	c.fetchedAt = c.now()
	c.Log.Info("catálogo revendedor atualizado", zap.Int("produtos", len(products)))
	return products, nil
}

func (c *Catalog) fetch(ctx context.Context) ([]model.ResellerProduct, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("reseller csv url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/csv")

	client := c.Client
	if client == nil {
		client = httpClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reseller csv status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Filter aplica a busca (nome sem diferenciar maiúsculas, ou código) e a categoria.
func Filter(products []model.ResellerProduct, search, category string) []model.ResellerProduct {
	search = strings.TrimSpace(search)
	needle := strings.ToLower(search)
	out := []model.ResellerProduct{}
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), needle) && !strings.Contains(p.Code, search) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories devolve "Todos" seguido das categorias distintas, em ordem alfabética.
func Categories(products []model.ResellerProduct) []string {
	seen := map[string]bool{}
	var cats []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return append([]string{AllCategories}, cats...)
}
