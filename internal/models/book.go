package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Book struct {
	ID          gocql.UUID `json:"id" db:"book_id"`
	Title       string     `json:"title" db:"title"`
	Author      string     `json:"author" db:"author"`
	Description string     `json:"description" db:"description"`
	ISBN        string     `json:"isbn" db:"isbn"`
	PriceCents  int64      `json:"price_cents" db:"price_cents"`
	Stock       int        `json:"stock" db:"stock"`
	CategoryID  gocql.UUID `json:"category_id" db:"category_id"`
	CoverURLs   []string   `json:"cover_urls" db:"cover_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
