package models

import (
	"errors"
	"time"

	id "tourmint/pkg/domain"
)

// ErrInsufficientFunds is returned when the sender cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Transfer is one recorded movement of native funds.
type Transfer struct {
	Amount    uint64      `json:"amount"`
	From      id.Identity `json:"from"`
	To        id.Identity `json:"to"`
	CreatedAt time.Time   `json:"created_at"`
}
