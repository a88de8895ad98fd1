package accounts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Avatar pairs the walk and idle sprite sheets of a playable character.
type Avatar struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	WalkFileID uuid.UUID `gorm:"type:uuid;column:walk_file_id;not null" json:"walk_file_id"`
	IdleFileID uuid.UUID `gorm:"type:uuid;column:idle_file_id;not null" json:"idle_file_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Avatar) TableName() string { return "avatar" }

func (a *Avatar) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
