package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Address : au plus une adresse par défaut par utilisateur,
// et exactement une dès qu'il en existe au moins une.
type Address struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"userId"`
	Label     string     `json:"label"`
	Receiver  string     `json:"receiver"`
	Phone     string     `json:"phone"`
	Province  string     `json:"province"`
	District  string     `json:"district"`
	Ward      string     `json:"ward"`
	Detail    string     `json:"detail"`
	IsDefault bool       `json:"isDefault"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
