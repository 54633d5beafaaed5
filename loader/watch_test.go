package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsChangedAssets(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.gltf", document("v1"))
	writeFile(t, dir, "other.gltf", document("ignored"))

	reloaded := make(chan *Asset, 16)
	l := newTestLoader(WithReloadHook(func(a *Asset) {
		select {
		case reloaded <- a:
		default:
		}
	}))
	original, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx, dir) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	// The watcher may not be registered yet, so keep rewriting until a reload lands.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var fresh *Asset
	for fresh == nil {
		select {
		case a := <-reloaded:
			if a.Model.Asset.Generator != nil && *a.Model.Asset.Generator == "v2" {
				fresh = a
			}
		case <-tick.C:
			writeFile(t, dir, "scene.gltf", document("v2"))
		case <-deadline:
			t.Fatal("timed out waiting for a reload")
		}
	}

	if fresh.ID == original.ID {
		t.Error("reloaded asset should have a new ID")
	}
	if cached := l.Get(path); cached == nil || *cached.Model.Asset.Generator != "v2" {
		t.Error("cache should hold the reloaded asset")
	}
	if len(l.Assets()) != 1 {
		t.Errorf("unloaded files must not be added, cache = %v", l.Assets())
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	for l.Get(path) != nil {
		select {
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for eviction")
		}
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := newTestLoader().Watch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestIsModelFile(t *testing.T) {
	tests := map[string]bool{
		"a.gltf":       true,
		"b.GLB":        true,
		"dir/c.glb":    true,
		"d.bin":        false,
		"e.gltf.tmp":   false,
		"no_extension": false,
	}
	for path, want := range tests {
		if got := isModelFile(path); got != want {
			t.Errorf("isModelFile(%q) = %v, want %v", path, got, want)
		}
	}
}
