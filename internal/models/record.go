package models

import "time"

// Record is one catalog item. Price is stored in major units (dollars);
// the payment processor expects cents, converted at checkout time.
type Record struct {
	ID          int64     `json:"record_id"`
	DiscogsID   *int64    `json:"discogs_id,omitempty"`
	Name        string    `json:"name"`
	AuthorName  string    `json:"author_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
