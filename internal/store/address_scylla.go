package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// ScyllaAddressStore : implémentation persistante sur le keyspace users.
// L'invariant mono-défaut repose sur des updates unitaires indépendants ;
// une fenêtre transitoire à deux défauts est tolérée, la promotion suivante
// répare d'elle-même (elle ne suppose jamais un état antérieur cohérent).
type ScyllaAddressStore struct{}

func NewScyllaAddressStore() *ScyllaAddressStore {
	return &ScyllaAddressStore{}
}

const addressColumns = "address_id, user_id, label, receiver, phone, province, district, ward, detail, is_default, updated_at"

func (s *ScyllaAddressStore) List(ctx context.Context, userID string) ([]models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT "+addressColumns+" FROM addresses WHERE user_id = ? ALLOW FILTERING", userID).
		WithContext(ctx).Iter()

	var (
		out  []models.Address
		addr models.Address
	)
	for iter.Scan(&addr.ID, &addr.UserID, &addr.Label, &addr.Receiver, &addr.Phone,
		&addr.Province, &addr.District, &addr.Ward, &addr.Detail, &addr.IsDefault, &addr.UpdatedAt) {
		out = append(out, addr)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ScyllaAddressStore) Get(ctx context.Context, userID, addressID string) (models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.Address{}, err
	}

	id, err := uuid.Parse(addressID)
	if err != nil {
		return models.Address{}, apperr.ErrNotFound
	}

	var addr models.Address
	err = session.Query("SELECT "+addressColumns+" FROM addresses WHERE address_id = ?", gocql.UUID(id)).
		WithContext(ctx).
		Scan(&addr.ID, &addr.UserID, &addr.Label, &addr.Receiver, &addr.Phone,
			&addr.Province, &addr.District, &addr.Ward, &addr.Detail, &addr.IsDefault, &addr.UpdatedAt)
	if err != nil || addr.UserID != userID {
		return models.Address{}, apperr.ErrNotFound
	}
	return addr, nil
}

func (s *ScyllaAddressStore) Create(ctx context.Context, addr models.Address) (models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.Address{}, err
	}

	existing, err := s.List(ctx, addr.UserID)
	if err != nil {
		return models.Address{}, err
	}

	if len(existing) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		if err := s.demoteAll(ctx, session, existing); err != nil {
			return models.Address{}, err
		}
	}

	addr.ID = gocql.TimeUUID()
	addr.UpdatedAt = time.Now()

	err = session.Query(`INSERT INTO addresses (`+addressColumns+`)
	                     VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addr.ID, addr.UserID, addr.Label, addr.Receiver, addr.Phone,
		addr.Province, addr.District, addr.Ward, addr.Detail, addr.IsDefault, addr.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return models.Address{}, err
	}
	return addr, nil
}

func (s *ScyllaAddressStore) Update(ctx context.Context, userID, addressID string, patch AddressPatch) (models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.Address{}, err
	}

	addr, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return models.Address{}, err
	}

	// Un seul gagnant : on rétrograde les autres avant d'appliquer le patch.
	if patch.IsDefault != nil && *patch.IsDefault {
		existing, err := s.List(ctx, userID)
		if err != nil {
			return models.Address{}, err
		}
		if err := s.demoteAll(ctx, session, existing); err != nil {
			return models.Address{}, err
		}
	}

	wasDefault := addr.IsDefault
	applyPatch(&addr, patch)
	addr.UpdatedAt = time.Now()

	// Rétrograder l'adresse par défaut sans en désigner d'autre laisserait
	// zéro défaut : la demande est ignorée.
	if wasDefault && !addr.IsDefault {
		addr.IsDefault = true
	}

	err = session.Query(`UPDATE addresses SET label = ?, receiver = ?, phone = ?, province = ?,
	                     district = ?, ward = ?, detail = ?, is_default = ?, updated_at = ?
	                     WHERE address_id = ?`,
		addr.Label, addr.Receiver, addr.Phone, addr.Province,
		addr.District, addr.Ward, addr.Detail, addr.IsDefault, addr.UpdatedAt, addr.ID).
		WithContext(ctx).Exec()
	if err != nil {
		return models.Address{}, err
	}
	return addr, nil
}

func (s *ScyllaAddressStore) Delete(ctx context.Context, userID, addressID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	addr, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if err := session.Query("DELETE FROM addresses WHERE address_id = ?", addr.ID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	// L'adresse par défaut supprimée : promouvoir la plus récemment modifiée.
	if addr.IsDefault {
		remaining, err := s.List(ctx, userID)
		if err != nil || len(remaining) == 0 {
			return err
		}
		newest := remaining[0]
		for _, a := range remaining[1:] {
			if a.UpdatedAt.After(newest.UpdatedAt) {
				newest = a
			}
		}
		return s.SetDefault(ctx, userID, newest.ID.String())
	}
	return nil
}

func (s *ScyllaAddressStore) SetDefault(ctx context.Context, userID, addressID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	target, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return err
	}

	existing, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.demoteAll(ctx, session, existing); err != nil {
		return err
	}

	return session.Query("UPDATE addresses SET is_default = ?, updated_at = ? WHERE address_id = ?",
		true, time.Now(), target.ID).WithContext(ctx).Exec()
}

func (s *ScyllaAddressStore) demoteAll(ctx context.Context, session *gocql.Session, addrs []models.Address) error {
	for _, a := range addrs {
		if !a.IsDefault {
			continue
		}
		if err := session.Query("UPDATE addresses SET is_default = ? WHERE address_id = ?", false, a.ID).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}
