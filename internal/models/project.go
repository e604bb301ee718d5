package models

import (
	"time"
)

// Project is the unit of task and membership management.
// IsArchived is persisted but no exposed operation toggles it yet;
// access rules must not consult it.
type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
