package world

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Grid stores a tile placement grid as an opaque JSON document.
type Grid struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Data        datatypes.JSON `gorm:"column:data;not null" json:"data"`
	Teleporters []Teleporter   `gorm:"foreignKey:SourceGridID;constraint:OnDelete:CASCADE" json:"teleporters,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Grid) TableName() string { return "grid" }

func (g *Grid) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
