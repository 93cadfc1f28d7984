package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CabinetType es una entrada del catálogo. Medidas en pies; max nil = sin límite.
type CabinetType struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:140;uniqueIndex" json:"name"`
	MinWidth   float64   `gorm:"type:decimal(6,2);not null" json:"min_width"`
	MaxWidth   *float64  `gorm:"type:decimal(6,2)" json:"max_width,omitempty"`
	MinHeight  float64   `gorm:"type:decimal(6,2);not null" json:"min_height"`
	MaxHeight  *float64  `gorm:"type:decimal(6,2)" json:"max_height,omitempty"`
	BaseOffset float64   `gorm:"type:decimal(6,2);default:0" json:"base_offset"`
	Color      string    `gorm:"size:20" json:"color"`
	ImageURL   string    `gorm:"size:255" json:"image_url,omitempty"`
	Active     bool      `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t CabinetType) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: nombre requerido", ErrInvalid)
	}
	if t.MinWidth < 0 || t.MinHeight < 0 || t.BaseOffset < 0 {
		return fmt.Errorf("%w: medida negativa", ErrInvalid)
	}
	if t.MaxWidth != nil && *t.MaxWidth < t.MinWidth {
		return fmt.Errorf("%w: ancho máximo menor al mínimo", ErrInvalid)
	}
	if t.MaxHeight != nil && *t.MaxHeight < t.MinHeight {
		return fmt.Errorf("%w: alto máximo menor al mínimo", ErrInvalid)
	}
	return nil
}
