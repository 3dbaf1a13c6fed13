package web

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"krenke/internal/model"
	"krenke/internal/repository"
)

type memProducts struct {
	mu    sync.Mutex
	items map[string]model.Product
}

func newMemProducts(ps ...model.Product) *memProducts {
	m := &memProducts{items: map[string]model.Product{}}
	for _, p := range ps {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) List(context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Product{}
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memProducts) Get(_ context.Context, id string) (model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Create(_ context.Context, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; ok {
		return repository.ErrConflict
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) Update(_ context.Context, originalID string, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[originalID]; !ok {
		return repository.ErrNotFound
	}
	if p.ID != originalID {
		if _, ok := m.items[p.ID]; ok {
			return repository.ErrConflict
		}
		delete(m.items, originalID)
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

type memPosts struct {
	mu    sync.Mutex
	items []model.Post
}

func (m *memPosts) sorted(onlyPublished bool) []model.Post {
	out := []model.Post{}
	for _, p := range m.items {
		if onlyPublished && !p.Published {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memPosts) ListPublished(context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(true), nil
}

func (m *memPosts) List(context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(false), nil
}

func (m *memPosts) find(match func(model.Post) bool) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if match(p) {
			return p, nil
		}
	}
	return model.Post{}, repository.ErrNotFound
}

func (m *memPosts) Get(_ context.Context, id string) (model.Post, error) {
	return m.find(func(p model.Post) bool { return p.ID == id })
}

func (m *memPosts) GetBySlug(_ context.Context, slug string) (model.Post, error) {
	return m.find(func(p model.Post) bool { return p.Slug == slug })
}

func (m *memPosts) Create(_ context.Context, p model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.Slug == p.Slug {
			return repository.ErrConflict
		}
	}
	m.items = append(m.items, p)
	return nil
}

func (m *memPosts) Update(_ context.Context, p model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.items {
		if x.ID == p.ID {
			m.items[i] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPosts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.items {
		if x.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPosts) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

type memLeads struct {
	mu    sync.Mutex
	items []model.Lead
}

func (m *memLeads) Create(_ context.Context, l model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, l)
	return nil
}

func (m *memLeads) List(context.Context) ([]model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Lead{}, m.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memLeads) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.items {
		if l.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memLeads) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

type memScripts struct {
	mu    sync.Mutex
	items []model.Script
}

func (m *memScripts) ListActive(context.Context) ([]model.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Script{}
	for _, s := range m.items {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScripts) List(context.Context) ([]model.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Script{}, m.items...), nil
}

func (m *memScripts) Create(_ context.Context, s model.Script) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, s)
	return nil
}

func (m *memScripts) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memScripts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memUsers struct {
	mu    sync.Mutex
	items map[string]model.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.Email == u.Email {
			return repository.ErrConflict
		}
	}
	m.items[u.ID] = u
	return nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for _, u := range m.items {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memSessions struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memSessions) Register(_ context.Context, tokenID, _ string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[tokenID] = true
	return nil
}

func (m *memSessions) Exists(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[tokenID], nil
}

func (m *memSessions) Revoke(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, tokenID)
	return nil
}

type stubLimiter struct {
	allow bool
	calls int
	keys  []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.calls++
	l.keys = append(l.keys, key)
	return l.allow, nil
}

// countingLimiter aceita até limit chamadas por chave.
type countingLimiter struct {
	limit  int
	counts map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[key]++
	return l.counts[key] <= l.limit, nil
}

type stubReseller struct {
	products []model.ResellerProduct
	err      error
}

func (s stubReseller) Products(context.Context) ([]model.ResellerProduct, error) {
	return s.products, s.err
}
