package models

import (
	"time"

	id "tourmint/pkg/domain"
)

// Institution is a principal permitted to mint credentials.
type Institution struct {
	ID           id.Identity
	RegisteredAt time.Time
}
