package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeacherProfile is the teacher extension record. Rating and review count
// are derived from the reviews table at query time, never stored here.
type TeacherProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"` // -> profiles.id

	Subjects datatypes.JSON `json:"subjects"` // ["Mathematics", ...]
	Location string         `gorm:"type:varchar(120)" json:"location"`
	Fee      int64          `json:"fee"` // INR per hour
	About    string         `gorm:"type:text" json:"about"`
	Tags     datatypes.JSON `json:"tags"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Experiences []TeacherExperience `gorm:"foreignKey:TeacherID" json:"experiences,omitempty"`
	Educations  []TeacherEducation  `gorm:"foreignKey:TeacherID" json:"educations,omitempty"`
}

func (p *TeacherProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// TeacherExperience is a work-history sub-record. The editor UI only adds
// and deletes; the HTTP surface additionally allows update-in-place.
type TeacherExperience struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;index;not null" json:"teacher_id"` // -> teacher_profiles.id

	Title       string `gorm:"type:varchar(150);not null" json:"title"`
	Institution string `gorm:"type:varchar(150);not null" json:"institution"`
	Period      string `gorm:"type:varchar(50);not null" json:"period"` // e.g. "2019-2021"
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *TeacherExperience) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// TeacherEducation is a degree sub-record, same lifecycle as experience.
type TeacherEducation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;index;not null" json:"teacher_id"` // -> teacher_profiles.id

	Degree      string `gorm:"type:varchar(150);not null" json:"degree"`
	Institution string `gorm:"type:varchar(150);not null" json:"institution"`
	Year        string `gorm:"type:varchar(20);not null" json:"year"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *TeacherEducation) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
