package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"krenke/internal/model"
	"krenke/internal/observability"
)

type memUpserter struct {
	mu     sync.Mutex
	saved  map[string]model.Product
	failOn string
}

func (m *memUpserter) Upsert(_ context.Context, p model.Product) error {
	if p.ID == m.failOn {
		return errors.New("boom")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[p.ID] = p
	return nil
}

func TestSeed(t *testing.T) {
	store := &memUpserter{saved: map[string]model.Product{}, failOn: "quebrado"}
	products := []model.Product{
		{ID: "kmp-0101", Name: "KMP 0101"},
		{ID: "kmp-0102", Name: "KMP 0102"},
		{ID: "quebrado", Name: "Quebrado"},
		{ID: "", Name: "Sem ID"},
		{ID: "gangorra", Name: "Gangorra"},
	}

	before := testutil.ToFloat64(observability.ProductsImportedTotal)
	res := Seed(context.Background(), products, store, 3, nil)

	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Failed)
	assert.Len(t, store.saved, 3)
	assert.Contains(t, store.saved, "gangorra")
	assert.Equal(t, before+3, testutil.ToFloat64(observability.ProductsImportedTotal))
}

func TestSeedZeroWorkers(t *testing.T) {
	store := &memUpserter{saved: map[string]model.Product{}}
	res := Seed(context.Background(), []model.Product{{ID: "a", Name: "A"}}, store, 0, nil)
	assert.Equal(t, 1, res.Imported)
}
