package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

// Payment is one gateway transaction for a booking.
type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID   uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`
	Booking     Booking   `gorm:"foreignKey:BookingID" json:"booking"`
	Reference   string    `gorm:"type:varchar(50);uniqueIndex" json:"reference"`    // gateway payment-link id
	MerchantRef string    `gorm:"type:varchar(50);uniqueIndex" json:"merchant_ref"` // INV-{Code}
	Method      string    `gorm:"type:varchar(50)" json:"method"`
	Amount      int64     `json:"amount"`
	CheckoutURL string    `gorm:"type:text" json:"checkout_url"`

	Status PaymentStatus `gorm:"type:varchar(20);default:'UNPAID'" json:"status"`
	PaidAt *time.Time    `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
