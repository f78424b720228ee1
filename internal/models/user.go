package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserType is the account category picked during onboarding. It lives on the
// Profile, not the User: a freshly registered identity has no type yet.
type UserType string

const (
	UserTypeTeacher UserType = "teacher"
	UserTypeStudent UserType = "student"
	UserTypeParent  UserType = "parent"
	UserTypeAdmin   UserType = "admin"
)

// ValidUserType reports whether t is a type a user may pick for themselves.
// Admin accounts are provisioned out of band, never via onboarding.
func ValidUserType(t UserType) bool {
	return t == UserTypeTeacher || t == UserTypeStudent || t == UserTypeParent
}

// User is the identity record. Created at registration (password or Google),
// before any Profile exists. Its email is authoritative for the account.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone string    `gorm:"type:varchar(30)" json:"phone"`

	Password string `gorm:"not null" json:"-"`
	Provider string `gorm:"type:varchar(20);default:'local'" json:"provider"` // local | google
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
