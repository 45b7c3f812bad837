package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Review struct {
	ID        gocql.UUID `json:"id"`
	BookID    gocql.UUID `json:"book_id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Rating    int        `json:"rating"` // 1 à 5
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}
