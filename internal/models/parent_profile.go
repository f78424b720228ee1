package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"` // -> profiles.id

	ChildrenCount  int    `json:"children_count"`
	ChildrenGrades string `gorm:"type:varchar(120)" json:"children_grades"` // e.g. "Class 5, Class 8"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ParentProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
