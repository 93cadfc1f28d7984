package domain

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Name      string    `gorm:"size:140" json:"name"`
	Type      string    `gorm:"size:40" json:"type"` // kitchen, bath, laundry, office...
	Height    float64   `gorm:"type:decimal(6,2)" json:"height"`
	Walls     []Wall    `json:"walls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Length queda nil hasta que el cliente mide la pared.
type Wall struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;index" json:"room_id"`
	Name      string    `gorm:"size:140" json:"name"`
	Length    *float64  `gorm:"type:decimal(6,2)" json:"length,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
