package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cabinet es una instancia ubicada en una pared. Coordenadas de grilla inclusivas.
type Cabinet struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WallID             uuid.UUID  `gorm:"type:uuid;index" json:"wall_id"`
	TypeID             *uuid.UUID `gorm:"type:uuid;index" json:"type_id,omitempty"`
	Name               string     `gorm:"size:140" json:"name"`
	GridStartX         int        `gorm:"not null" json:"grid_start_x"`
	GridStartY         int        `gorm:"not null" json:"grid_start_y"`
	GridEndX           int        `gorm:"not null" json:"grid_end_x"`
	GridEndY           int        `gorm:"not null" json:"grid_end_y"`
	DoorMaterial       string     `gorm:"size:60" json:"door_material"`
	ConstructionMethod string     `gorm:"size:60" json:"construction_method"`
	Finish             string     `gorm:"size:60" json:"finish"`
	Notes              string     `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
