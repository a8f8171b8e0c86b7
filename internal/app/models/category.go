package models

import "time"

// Category is the lookup referenced by business profiles
type Category struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Bakery"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
