package assets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is the metadata row for one uploaded file. The file lives at
// <scope>/<type>/<category>/<filename> in the object store; Path holds its
// public URL.
type Asset struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string     `gorm:"column:filename;not null;uniqueIndex:idx_asset_location,priority:4" json:"filename"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Type        string     `gorm:"column:type;not null;uniqueIndex:idx_asset_location,priority:2;index" json:"type"`
	Category    string     `gorm:"column:category;not null;uniqueIndex:idx_asset_location,priority:3" json:"category"`
	Scope       string     `gorm:"column:scope;not null;uniqueIndex:idx_asset_location,priority:1" json:"scope"`
	Path        string     `gorm:"column:path;not null" json:"path"`
	Size        int64      `gorm:"column:size;not null" json:"size"`
	MimeType    string     `gorm:"column:mime_type" json:"mime_type,omitempty"`
	Dimensions  *string    `gorm:"column:dimensions" json:"dimensions,omitempty"`
	FrameWidth  *int       `gorm:"column:frame_width" json:"frame_width,omitempty"`
	FrameHeight *int       `gorm:"column:frame_height" json:"frame_height,omitempty"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid;column:uploaded_by;index" json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Asset) TableName() string { return "asset" }

// Key is the object-store key of the asset's file.
func (a *Asset) Key() string {
	return a.Scope + "/" + a.Type + "/" + a.Category + "/" + a.Filename
}

func (a *Asset) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
