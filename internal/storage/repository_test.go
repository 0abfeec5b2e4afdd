package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "feedfusion.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_CredentialRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	token, err := repo.LoadCredential(ctx)
	if err != nil {
		t.Fatalf("LoadCredential returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty slot, got %q", token)
	}

	if err := repo.SaveCredential(ctx, "tok-1"); err != nil {
		t.Fatalf("SaveCredential returned error: %v", err)
	}
	if err := repo.SaveCredential(ctx, "tok-2"); err != nil {
		t.Fatalf("second SaveCredential returned error: %v", err)
	}

	token, err = repo.LoadCredential(ctx)
	if err != nil {
		t.Fatalf("LoadCredential returned error: %v", err)
	}
	if token != "tok-2" {
		t.Fatalf("expected latest token, got %q", token)
	}

	if err := repo.ClearCredential(ctx); err != nil {
		t.Fatalf("ClearCredential returned error: %v", err)
	}
	token, err = repo.LoadCredential(ctx)
	if err != nil {
		t.Fatalf("LoadCredential returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected cleared slot, got %q", token)
	}
}

func TestCredentialSlot_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feedfusion.db")
	ctx := context.Background()

	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	slot, err := NewCredentialSlot(ctx, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCredentialSlot returned error: %v", err)
	}
	slot.Set("persisted")
	if err := repo.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	repo, err = NewRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init after reopen returned error: %v", err)
	}

	slot, err = NewCredentialSlot(ctx, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCredentialSlot after reopen returned error: %v", err)
	}
	if slot.Get() != "persisted" {
		t.Fatalf("expected token to survive reopen, got %q", slot.Get())
	}
}

func TestCredentialSlot_ClearEmptiesSlot(t *testing.T) {
	repo := newTestRepo(t)
	slot, err := NewCredentialSlot(context.Background(), repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCredentialSlot returned error: %v", err)
	}

	slot.Set("tok")
	slot.Clear()
	if slot.Get() != "" {
		t.Fatalf("expected empty slot, got %q", slot.Get())
	}

	token, err := repo.LoadCredential(context.Background())
	if err != nil {
		t.Fatalf("LoadCredential returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected persisted slot cleared, got %q", token)
	}
}
