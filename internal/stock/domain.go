// Package stock persists and guards per-item stock rows. Every item owns
// exactly one stock row; its quantity never goes negative and is only mutated
// inside a transaction that has first locked the row.
package stock

import (
	"fmt"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// Stock summarises the on-hand quantity for one item.
type Stock struct {
	ID       int64 `json:"stock_id"`
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

// ErrNegativeQuantity rejects attempts to set a stock level below zero. It
// wraps shared.ErrValidation so the HTTP layer reports it as a bad request.
var ErrNegativeQuantity = fmt.Errorf("stock: quantity must not be negative: %w", shared.ErrValidation)
