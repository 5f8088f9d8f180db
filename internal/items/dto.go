package items

// CreateItemRequest carries the validated payload for item creation.
type CreateItemRequest struct {
	Name        string `json:"item_name" validate:"required,max=200"`
	Description string `json:"item_description" validate:"max=2000"`
	Category    string `json:"item_category" validate:"max=100"`
}

// UpdateItemRequest rewrites an item's mutable fields.
type UpdateItemRequest struct {
	ID          int64  `json:"item_id" validate:"required,gt=0"`
	Name        string `json:"item_name" validate:"required,max=200"`
	Description string `json:"item_description" validate:"max=2000"`
	Category    string `json:"item_category" validate:"max=100"`
	UpdatedBy   string `json:"-"`
}

// CreatedItem is returned from the create composite operation.
type CreatedItem struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"item_name"`
}
