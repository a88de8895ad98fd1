package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AssetDirectory answers whether an asset id exists in the asset service.
type AssetDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

const assetLookupConcurrency = 8

// missingAssets checks ids concurrently and returns the ones the directory
// does not know, in input order. A nil directory checks nothing.
func missingAssets(ctx context.Context, dir AssetDirectory, ids []uuid.UUID) ([]uuid.UUID, error) {
	if dir == nil || len(ids) == 0 {
		return nil, nil
	}
	found := make([]bool, len(ids))
	seen := make(map[uuid.UUID]int, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assetLookupConcurrency)
	var mu sync.Mutex
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = i
		i, id := i, id
		g.Go(func() error {
			ok, err := dir.Exists(gctx, id)
			if err != nil {
				return fmt.Errorf("lookup asset %s: %w", id, err)
			}
			mu.Lock()
			found[i] = ok
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []uuid.UUID
	for i, id := range ids {
		if seen[id] == i && !found[i] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
