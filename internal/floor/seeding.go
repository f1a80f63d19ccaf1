package floor

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
)

type bootstrapSeedDocument struct {
	Menu []menuSeed `json:"menu"`
}

type menuSeed struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func loadMenuSeeds(seedFS embed.FS) ([]menuSeed, error) {
	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	if len(seedBytes) == 0 {
		return nil, errors.New("menu seed file is empty")
	}

	var doc bootstrapSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode menu seed file: %w", err)
	}

	if len(doc.Menu) == 0 {
		return nil, errors.New("menu seed file does not contain menu items")
	}

	return doc.Menu, nil
}

// ApplyMenuSeeds ensures the house menu exists in the catalog. Seeding is
// idempotent: items already present, seeded or operator-created, are left
// untouched.
func ApplyMenuSeeds(ctx context.Context, catalog *Catalog, seedFS embed.FS, logger apt.Logger) error {
	if catalog == nil {
		return errors.New("menu catalog is required")
	}

	seeds, err := loadMenuSeeds(seedFS)
	if err != nil {
		return err
	}

	for _, s := range seeds {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, created, err := catalog.Ensure(s.Name, s.Price)
		if err != nil {
			logger.Errorf("Skipping invalid seed menu item %q: %v", s.Name, err)
			continue
		}
		if created {
			logger.Info("Seed menu item created", "id", item.ID, "name", item.Name, "price", item.Price)
		} else {
			logger.Info("Seed menu item already exists", "id", item.ID)
		}
	}

	return nil
}

// ApplyDemoSeeds seeds the menu and then stages a small occupied floor so a
// demo environment has something to look at: a few seated tables with
// pending orders.
func ApplyDemoSeeds(ctx context.Context, engine *Engine, seedFS embed.FS, logger apt.Logger) error {
	if engine == nil {
		return errors.New("engine is required")
	}

	if err := ApplyMenuSeeds(ctx, engine.Catalog(), seedFS, logger); err != nil {
		return fmt.Errorf("apply menu seeds: %w", err)
	}

	demoTables := []struct {
		tableID int
		orders  []struct {
			menuID   string
			quantity int
		}
	}{
		{3, []struct {
			menuID   string
			quantity int
		}{{"soju", 2}, {"kimchi-pancake", 1}}},
		{7, []struct {
			menuID   string
			quantity int
		}{{"beer", 4}}},
		{12, []struct {
			menuID   string
			quantity int
		}{{"pork-stirfry", 1}, {"soju", 1}}},
	}

	for _, demo := range demoTables {
		_, applied, err := engine.Enter(demo.tableID)
		if err != nil {
			return fmt.Errorf("seat demo table %d: %w", demo.tableID, err)
		}
		if !applied {
			logger.Info("Demo table already occupied", "table_id", demo.tableID)
			continue
		}
		for _, o := range demo.orders {
			if _, err := engine.AddOrder(demo.tableID, o.menuID, o.quantity); err != nil {
				logger.Errorf("Skipping demo order %s on table %d: %v", o.menuID, demo.tableID, err)
			}
		}
		logger.Info("Demo table seated", "table_id", demo.tableID, "orders", len(demo.orders))
	}

	return nil
}

// SeedingFunc returns a lifecycle OnStart-compatible function which applies
// the menu seeds in the background.
func SeedingFunc(seedCtx context.Context, catalog *Catalog, seedFS embed.FS, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting menu seeding in background")
		go func() {
			if err := ApplyMenuSeeds(seedCtx, catalog, seedFS, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Menu seeds failed: %v", err)
			}
		}()
		return nil
	}
}

// DemoSeedingFunc returns a lifecycle OnStart-compatible function which
// applies menu and demo floor seeds in the background.
func DemoSeedingFunc(seedCtx context.Context, engine *Engine, seedFS embed.FS, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting demo seeding in background")
		go func() {
			if err := ApplyDemoSeeds(seedCtx, engine, seedFS, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Demo seeds failed: %v", err)
			}
		}()
		return nil
	}
}

// StopFunc returns a lifecycle OnStop-compatible function which cancels any
// background seeding goroutine.
func StopFunc(cancelFunc context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancelFunc != nil {
			cancelFunc()
		}
		return nil
	}
}
