package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is client feedback on a completed booking. One review per booking;
// TeacherID references the teacher_profiles row so rating aggregates join
// straight onto the extension record.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;unique" json:"booking_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;index" json:"teacher_id"` // -> teacher_profiles.id
	ClientID  uuid.UUID `gorm:"type:uuid;index" json:"client_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Client  *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
