package design

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SavedDesign is a customer design bound to a product. CanvasJSON is the
// opaque canvas state produced by the customizer; the order snapshot
// builder copies it verbatim at checkout.
type SavedDesign struct {
	ID        uuid.UUID
	UserID    uint
	ProductID uuid.UUID

	Name       string
	CanvasJSON json.RawMessage
	Version    int

	CreatedAt time.Time
	UpdatedAt time.Time
}
