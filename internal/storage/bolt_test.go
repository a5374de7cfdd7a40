package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestBoltStore(t *testing.T) {
	store := NewBoltStore(filepath.Join(t.TempDir(), "boolnet.bolt"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "boolnet.bolt")

	store := NewBoltStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveNetwork(ctx, networkForTests("n1", "kept")); err != nil {
		t.Fatalf("save network: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := store.GetNetwork(ctx, "n1"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized after close, got: %v", err)
	}

	reopened := NewBoltStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	record, ok, err := reopened.GetNetwork(ctx, "n1")
	if err != nil || !ok {
		t.Fatalf("expected persisted network, got ok=%t err=%v", ok, err)
	}
	if record.Name != "kept" {
		t.Fatalf("unexpected network: %+v", record)
	}
}

func TestBoltStoreRequiresPath(t *testing.T) {
	if err := NewBoltStore("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}
