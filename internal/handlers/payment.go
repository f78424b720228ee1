package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/realtime"
	"github.com/essjaykay755/teachersgallery-api/internal/services/razorpay"
)

type PaymentHandler struct {
	DB          *gorm.DB
	Gateway     *razorpay.Client
	Hub         *realtime.Hub
	CallbackURL string
}

type createPaymentReq struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
}

// Create issues a hosted checkout link for a pending booking. Only the
// client who owes the money can ask for one; repeat calls reuse the
// existing unpaid link.
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	if h.Gateway == nil {
		return fail200(c, "Payments are not configured")
	}

	var req createPaymentReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	var booking models.Booking
	if err := h.DB.WithContext(c.Context()).First(&booking, "id = ?", req.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail200(c, "Booking not found")
		}
		return fail500(c, "Server error")
	}
	if booking.ClientID != uID {
		return fail200(c, "Only the booking's client can pay for it")
	}
	if booking.Status != models.BookingStatusPending {
		return fail200(c, "Booking is not awaiting payment")
	}

	var existing models.Payment
	err = h.DB.WithContext(c.Context()).
		First(&existing, "booking_id = ? AND status = ?", booking.ID, models.PaymentStatusUnpaid).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Payment link",
			"data":    existing,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Server error")
	}

	var client models.User
	if err := h.DB.WithContext(c.Context()).First(&client, "id = ?", uID).Error; err != nil {
		return fail500(c, "Server error")
	}

	merchantRef := fmt.Sprintf("INV-%s", booking.Code)
	link, err := h.Gateway.CreatePaymentLink(
		booking.Price,
		merchantRef,
		fmt.Sprintf("Lesson: %s", booking.Subject),
		razorpay.Customer{
			Name:    client.Name,
			Email:   client.Email,
			Contact: client.Phone,
		},
		h.CallbackURL,
	)
	if err != nil {
		log.Printf("[Payment] create link failed: %v", err)
		return fail500(c, "Failed to create payment link")
	}

	payment := models.Payment{
		BookingID:   booking.ID,
		Reference:   link.ID,
		MerchantRef: merchantRef,
		Amount:      booking.Price,
		CheckoutURL: link.ShortURL,
		Status:      models.PaymentStatusUnpaid,
	}
	if err := h.DB.WithContext(c.Context()).Create(&payment).Error; err != nil {
		return fail500(c, "Failed to save payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Payment link created",
		"data":    payment,
	})
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string `json:"id"`
				ReferenceID string `json:"reference_id"`
				Status      string `json:"status"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// Webhook handles the gateway callback. Signature first, then look up the
// payment by the link id; the whole state change runs in one transaction.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	if h.Gateway == nil {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")
	if !h.Gateway.VerifyWebhookSignature(body, signature) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if ev.Event != "payment_link.paid" {
		// acknowledge everything else so the gateway stops retrying
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	var payment models.Payment
	if err := h.DB.WithContext(c.Context()).
		First(&payment, "reference = ?", ev.Payload.PaymentLink.Entity.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment not found"})
	}
	if payment.Status == models.PaymentStatusPaid {
		return c.JSON(fiber.Map{"status": "already processed"})
	}

	tx := h.DB.WithContext(c.Context()).Begin()
	if tx.Error != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	now := time.Now()
	if err := tx.Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
		tx.Rollback()
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if err := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", payment.BookingID, models.BookingStatusPending).
		Update("status", models.BookingStatusPaid).Error; err != nil {
		tx.Rollback()
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if err := tx.Commit().Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if h.Hub != nil {
		var booking models.Booking
		if err := h.DB.WithContext(c.Context()).First(&booking, "id = ?", payment.BookingID).Error; err == nil {
			h.Hub.SendToConversation(booking.ClientID, booking.TeacherID, fiber.Map{
				"type":    "booking_paid",
				"booking": booking,
			})
		}
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
