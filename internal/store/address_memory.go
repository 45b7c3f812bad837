package store

import (
	"context"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/models"
)

// MemoryAddressStore : fallback mono-processus quand ScyllaDB n'est pas
// configuré. Même sémantique que le store persistant, map protégée par mutex.
type MemoryAddressStore struct {
	mu        sync.RWMutex
	addresses map[string][]models.Address // user_id → adresses
}

func NewMemoryAddressStore() *MemoryAddressStore {
	return &MemoryAddressStore{addresses: make(map[string][]models.Address)}
}

func (s *MemoryAddressStore) List(_ context.Context, userID string) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Address, len(s.addresses[userID]))
	copy(out, s.addresses[userID])
	return out, nil
}

func (s *MemoryAddressStore) Get(_ context.Context, userID, addressID string) (models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, addr := range s.addresses[userID] {
		if addr.ID.String() == addressID {
			return addr, nil
		}
	}
	return models.Address{}, apperr.ErrNotFound
}

func (s *MemoryAddressStore) Create(_ context.Context, addr models.Address) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.addresses[addr.UserID]

	// Première adresse, ou défaut demandé : un seul gagnant.
	if len(existing) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range existing {
			existing[i].IsDefault = false
		}
	}

	addr.ID = gocql.TimeUUID()
	addr.UpdatedAt = time.Now()
	s.addresses[addr.UserID] = append(existing, addr)
	return addr, nil
}

func (s *MemoryAddressStore) Update(_ context.Context, userID, addressID string, patch AddressPatch) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	idx := -1
	for i := range list {
		if list[i].ID.String() == addressID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Address{}, apperr.ErrNotFound
	}

	if patch.IsDefault != nil && *patch.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}

	applyPatch(&list[idx], patch)
	list[idx].UpdatedAt = time.Now()

	// Rétrograder la seule adresse par défaut laisserait zéro défaut :
	// on re-promeut la plus récemment modifiée, donc celle-ci.
	hasDefault := false
	for i := range list {
		if list[i].IsDefault {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		list[idx].IsDefault = true
	}

	return list[idx], nil
}

func (s *MemoryAddressStore) Delete(_ context.Context, userID, addressID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	idx := -1
	for i := range list {
		if list[i].ID.String() == addressID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.ErrNotFound
	}

	wasDefault := list[idx].IsDefault
	list = append(list[:idx], list[idx+1:]...)

	// Si on supprime l'adresse par défaut, la plus récemment modifiée prend
	// le relais. Zéro défaut n'est permis que sans aucune adresse.
	if wasDefault && len(list) > 0 {
		newest := 0
		for i := range list {
			list[i].IsDefault = false
			if list[i].UpdatedAt.After(list[newest].UpdatedAt) {
				newest = i
			}
		}
		list[newest].IsDefault = true
	}

	if len(list) == 0 {
		delete(s.addresses, userID)
	} else {
		s.addresses[userID] = list
	}
	return nil
}

func (s *MemoryAddressStore) SetDefault(_ context.Context, userID, addressID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.addresses[userID]
	idx := -1
	for i := range list {
		if list[i].ID.String() == addressID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.ErrNotFound
	}

	for i := range list {
		list[i].IsDefault = false
	}
	list[idx].IsDefault = true
	list[idx].UpdatedAt = time.Now()
	return nil
}
