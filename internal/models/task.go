package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow  TaskPriority = "low"
	TaskPriorityMid  TaskPriority = "mid"
	TaskPriorityHigh TaskPriority = "high"
)

// Task is a unit of work inside a project. DoneAt is set on the
// transition to done and cleared on any other status transition.
type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'mid'" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	AssigneeID  *uint64      `gorm:"index" json:"assignee_id"`
	CreatorID   uint64       `gorm:"not null" json:"creator_id"`
	DoneAt      *time.Time   `json:"done_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}
