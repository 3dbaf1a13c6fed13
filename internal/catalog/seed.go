package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/observability"
)

// Upserter grava um produto, criando ou atualizando pelo ID.
type Upserter interface {
	Upsert(ctx context.Context, p model.Product) error
}

type SeedResult struct {
	Imported int
	Failed   int
}

// Seed grava os produtos usando um pool fixo de workers. Falhas individuais
// são registradas e contadas, a importação segue com os demais.
func Seed(ctx context.Context, products []model.Product, store Upserter, workers int, log *zap.Logger) SeedResult {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	jobs := make(chan model.Product)
	var wg sync.WaitGroup
	var imported, failed atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if err := store.Upsert(ctx, p); err != nil {
					log.Warn("erro ao gravar produto", zap.String("id", p.ID), zap.Error(err))
					failed.Add(1)
					continue
				}
				imported.Add(1)
				observability.ProductsImportedTotal.Inc()
			}
		}()
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			log.Warn("produto sem id ou nome ignorado", zap.String("name", p.Name))
			failed.Add(1)
			continue
		}
		select {
		case jobs <- p:
		case <-ctx.Done():
			failed.Add(1)
		}
	}
	close(jobs)
	wg.Wait()

	return SeedResult{Imported: int(imported.Load()), Failed: int(failed.Load())}
}
