// Package items manages the item catalogue. Item creation is a composite
// operation: the item row and its stock row are created inside one
// transaction so neither can exist without the other.
package items

import "time"

// Item is a sellable catalogue entry. Soft-deleted items are excluded from
// listings but keep their row for order history.
type Item struct {
	ID          int64     `json:"item_id"`
	Name        string    `json:"item_name"`
	Description string    `json:"item_description"`
	Category    string    `json:"item_category"`
	CreatedBy   string    `json:"created_by"`
	CreatedDate time.Time `json:"created_date"`
}
