package models

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // waiting for payment
	BookingStatusPaid      BookingStatus = "paid"      // payment received
	BookingStatusCompleted BookingStatus = "completed" // lesson delivered
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a lesson engagement created by the teacher inside a
// conversation. The client pays for it; a completed booking unlocks a
// review.
type Booking struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string    `gorm:"unique;size:10" json:"code"` // e.g. K2XM91QD
	ConversationID uuid.UUID `gorm:"type:uuid;index" json:"conversation_id"`
	TeacherID      uuid.UUID `gorm:"type:uuid;index" json:"teacher_id"` // teacher's user id
	ClientID       uuid.UUID `gorm:"type:uuid;index" json:"client_id"`

	Subject     string `gorm:"type:varchar(120)" json:"subject"`
	Price       int64  `json:"price"`        // lesson price, INR
	PlatformFee int64  `json:"platform_fee"` // 10% commission
	NetAmount   int64  `json:"net_amount"`   // teacher receives

	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `gorm:"type:text" json:"notes"`

	Status BookingStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	Teacher      *User         `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Client       *User         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// GenerateBookingCode returns a short random alphanumeric code.
func GenerateBookingCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
