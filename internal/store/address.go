// Package store isole les adresses et le cache OTP derrière des interfaces :
// les handlers ignorent si la donnée vit dans ScyllaDB ou en mémoire
// (fallback mono-processus pour le dev, ne survit pas à un redémarrage).
package store

import (
	"context"

	"papyrus_back_end/internal/models"
)

// AddressPatch : seuls les champs non-nil sont appliqués.
type AddressPatch struct {
	Label     *string
	Receiver  *string
	Phone     *string
	Province  *string
	District  *string
	Ward      *string
	Detail    *string
	IsDefault *bool
}

// AddressStore maintient l'invariant : au plus une adresse par défaut par
// utilisateur, exactement une dès qu'il en existe au moins une.
// Toute opération sur un id n'appartenant pas à l'utilisateur retourne
// apperr.ErrNotFound — on ne révèle jamais les adresses d'autrui.
type AddressStore interface {
	List(ctx context.Context, userID string) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID string) (models.Address, error)
	Create(ctx context.Context, addr models.Address) (models.Address, error)
	Update(ctx context.Context, userID, addressID string, patch AddressPatch) (models.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
	SetDefault(ctx context.Context, userID, addressID string) error
}

func applyPatch(addr *models.Address, patch AddressPatch) {
	if patch.Label != nil {
		addr.Label = *patch.Label
	}
	if patch.Receiver != nil {
		addr.Receiver = *patch.Receiver
	}
	if patch.Phone != nil {
		addr.Phone = *patch.Phone
	}
	if patch.Province != nil {
		addr.Province = *patch.Province
	}
	if patch.District != nil {
		addr.District = *patch.District
	}
	if patch.Ward != nil {
		addr.Ward = *patch.Ward
	}
	if patch.Detail != nil {
		addr.Detail = *patch.Detail
	}
	if patch.IsDefault != nil {
		addr.IsDefault = *patch.IsDefault
	}
}
