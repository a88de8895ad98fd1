package world

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Map groups the asset files that make up one playable map. Asset ids are
// plain references; nothing in the schema ties them to asset rows.
type Map struct {
	ID           uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                        `gorm:"column:name;not null" json:"name"`
	Description  *string                       `gorm:"column:description;type:text" json:"description,omitempty"`
	LayerFileIDs datatypes.JSONSlice[uuid.UUID] `gorm:"column:layer_file_ids;not null" json:"layer_file_ids"`
	JSONFileID   *uuid.UUID                    `gorm:"type:uuid;column:json_file_id" json:"json_file_id,omitempty"`
	Metadata     datatypes.JSON                `gorm:"column:metadata" json:"metadata,omitempty"`
	Teleporters  []Teleporter                  `gorm:"foreignKey:DestinationMapID;constraint:OnDelete:CASCADE" json:"teleporters,omitempty"`
	CreatedAt    time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Map) TableName() string { return "map" }

func (m *Map) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AssetIDs lists every asset the map refers to, layers first.
func (m *Map) AssetIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.LayerFileIDs)+1)
	out = append(out, m.LayerFileIDs...)
	if m.JSONFileID != nil {
		out = append(out, *m.JSONFileID)
	}
	return out
}
