package world

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Teleporter links a tile on a source grid to a position on a destination map.
type Teleporter struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier          string         `gorm:"column:identifier;not null;index" json:"identifier"`
	SourceGridID        uuid.UUID      `gorm:"type:uuid;column:source_grid_id;not null;index" json:"source_grid_id"`
	SourceGrid          *Grid          `gorm:"foreignKey:SourceGridID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	DestinationMapID    uuid.UUID      `gorm:"type:uuid;column:destination_map_id;not null;index" json:"destination_map_id"`
	DestinationMap      *Map           `gorm:"foreignKey:DestinationMapID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	DestinationPosition datatypes.JSON `gorm:"column:destination_position;not null" json:"destination_position"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (Teleporter) TableName() string { return "teleporter" }

func (t *Teleporter) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
