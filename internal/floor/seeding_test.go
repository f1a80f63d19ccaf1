package floor

import (
	"context"
	"embed"
	"testing"

	"github.com/appetiteclub/apt"
)

func TestApplyMenuSeedsNilCatalog(t *testing.T) {
	var seedFS embed.FS

	err := ApplyMenuSeeds(context.Background(), nil, seedFS, apt.NewNoopLogger())
	if err == nil {
		t.Error("ApplyMenuSeeds() with nil catalog should return error")
	}

	expectedMsg := "menu catalog is required"
	if err.Error() != expectedMsg {
		t.Errorf("ApplyMenuSeeds() error = %q, want %q", err.Error(), expectedMsg)
	}
}

func TestApplyMenuSeedsMissingFile(t *testing.T) {
	var seedFS embed.FS

	err := ApplyMenuSeeds(context.Background(), NewCatalog(), seedFS, apt.NewNoopLogger())
	if err == nil {
		t.Error("ApplyMenuSeeds() with an empty FS should return error")
	}
}

func TestApplyDemoSeedsNilEngine(t *testing.T) {
	var seedFS embed.FS

	err := ApplyDemoSeeds(context.Background(), nil, seedFS, apt.NewNoopLogger())
	if err == nil {
		t.Error("ApplyDemoSeeds() with nil engine should return error")
	}

	expectedMsg := "engine is required"
	if err.Error() != expectedMsg {
		t.Errorf("ApplyDemoSeeds() error = %q, want %q", err.Error(), expectedMsg)
	}
}

func TestSeedingFuncNilLogger(t *testing.T) {
	var seedFS embed.FS

	fn := SeedingFunc(context.Background(), NewCatalog(), seedFS, nil)
	if fn == nil {
		t.Fatal("SeedingFunc() returned nil function")
	}

	// The function itself never fails; seeding errors surface in the
	// background goroutine.
	if err := fn(context.Background()); err != nil {
		t.Errorf("SeedingFunc() returned function should not return error, got: %v", err)
	}
}

func TestDemoSeedingFunc(t *testing.T) {
	var seedFS embed.FS
	engine := newTestEngine(t, 15)

	fn := DemoSeedingFunc(context.Background(), engine, seedFS, apt.NewNoopLogger())
	if fn == nil {
		t.Fatal("DemoSeedingFunc() returned nil function")
	}

	if err := fn(context.Background()); err != nil {
		t.Errorf("DemoSeedingFunc() returned function should not return error, got: %v", err)
	}
}

func TestStopFunc(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	fn := StopFunc(cancel)

	if err := fn(context.Background()); err != nil {
		t.Errorf("StopFunc() returned function should not return error, got: %v", err)
	}

	if err := StopFunc(nil)(context.Background()); err != nil {
		t.Errorf("StopFunc(nil) returned function should not return error, got: %v", err)
	}
}
