package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const persistTimeout = 5 * time.Second

// CredentialSlot adapts the repository to the synchronous store the api
// client expects. Reads serve an in-memory copy; writes go through to the
// database, with failures logged rather than raised — the session keeps
// working in memory even if persistence degrades.
type CredentialSlot struct {
	mu    sync.Mutex
	repo  *Repository
	token string
	log   zerolog.Logger
}

// NewCredentialSlot loads any previously persisted token into memory.
func NewCredentialSlot(ctx context.Context, repo *Repository, log zerolog.Logger) (*CredentialSlot, error) {
	token, err := repo.LoadCredential(ctx)
	if err != nil {
		return nil, err
	}
	return &CredentialSlot{repo: repo, token: token, log: log}, nil
}

func (s *CredentialSlot) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *CredentialSlot) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.SaveCredential(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("credential not persisted")
	}
}

func (s *CredentialSlot) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.ClearCredential(ctx); err != nil {
		s.log.Warn().Err(err).Msg("credential slot not cleared")
	}
}
