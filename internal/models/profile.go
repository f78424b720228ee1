package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the base record shared by every user type. Exactly one per
// identity, created once at the end of onboarding; its primary key IS the
// user id. UserType is immutable after creation.
type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"` // = users.id
	FullName string    `gorm:"type:varchar(150);not null" json:"full_name"`
	Email    string    `gorm:"type:varchar(150);not null" json:"email"`
	Phone    string    `gorm:"type:varchar(30)" json:"phone"`

	UserType  UserType `gorm:"type:varchar(20);not null;index" json:"user_type"`
	AvatarURL string   `gorm:"type:text" json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// One-to-one extension, matching UserType
	TeacherProfile *TeacherProfile `gorm:"foreignKey:UserID;references:ID" json:"teacher_profile,omitempty"`
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;references:ID" json:"student_profile,omitempty"`
	ParentProfile  *ParentProfile  `gorm:"foreignKey:UserID;references:ID" json:"parent_profile,omitempty"`
}
