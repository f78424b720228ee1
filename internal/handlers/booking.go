package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/realtime"
)

type BookingHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

const platformFeePercent = 10

type createBookingReq struct {
	ConversationID uuid.UUID `json:"conversation_id" validate:"required"`
	Subject        string    `json:"subject" validate:"required,max=120"`
	Price          int64     `json:"price" validate:"required,gt=0"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	Notes          string    `json:"notes" validate:"max=2000"`
}

// Create lets the teacher of a conversation propose a booking to the
// client. The booking lands in the thread as a message and over the
// websocket so the client sees it live.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req createBookingReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	var conv models.Conversation
	if err := h.DB.WithContext(c.Context()).First(&conv, "id = ?", req.ConversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail200(c, "Conversation not found")
		}
		return fail500(c, "Server error")
	}
	if conv.TeacherID != uID {
		return fail200(c, "Only the teacher can create a booking in this conversation")
	}

	fee := req.Price * platformFeePercent / 100
	booking := models.Booking{
		Code:           models.GenerateBookingCode(),
		ConversationID: conv.ID,
		TeacherID:      conv.TeacherID,
		ClientID:       conv.ClientID,
		Subject:        req.Subject,
		Price:          req.Price,
		PlatformFee:    fee,
		NetAmount:      req.Price - fee,
		ScheduledAt:    req.ScheduledAt,
		Notes:          req.Notes,
		Status:         models.BookingStatusPending,
	}

	tx := h.DB.WithContext(c.Context()).Begin()
	if tx.Error != nil {
		return fail500(c, "Server error")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to create booking")
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       uID,
		Type:           "booking",
		Text:           booking.ID.String(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to create booking message")
	}
	if err := tx.Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Update("last_message_at", time.Now()).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to update conversation")
	}

	if err := tx.Commit().Error; err != nil {
		return fail500(c, "Failed to create booking")
	}

	if h.Hub != nil {
		h.Hub.SendToConversation(conv.ClientID, conv.TeacherID, fiber.Map{
			"type":    "booking_created",
			"booking": booking,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created",
		"data":    booking,
	})
}

// ListMine returns bookings where the caller is either side, newest first.
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	q := h.DB.WithContext(c.Context()).Model(&models.Booking{}).
		Where("teacher_id = ? OR client_id = ?", uID, uID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail500(c, "Failed to count bookings")
	}

	var rows []models.Booking
	if err := q.Preload("Teacher").Preload("Client").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return fail500(c, "Failed to load bookings")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
		"metadata": listMetadata{
			Total:   total,
			Page:    page,
			Limit:   limit,
			HasMore: int64(page*limit) < total,
		},
	})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.DB.WithContext(c.Context()).
		Preload("Teacher").Preload("Client").
		First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "booking not found")
		}
		return fail500(c, "Server error")
	}
	if booking.TeacherID != uID && booking.ClientID != uID {
		return httpError(c, fiber.StatusForbidden, "not a participant of this booking")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    booking,
	})
}

// Complete: teacher marks a paid lesson as delivered, which unlocks the
// client's review.
func (h *BookingHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, models.BookingStatusPaid, models.BookingStatusCompleted, true)
}

// Cancel: either side may cancel while the booking is still unpaid.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, models.BookingStatusPending, models.BookingStatusCancelled, false)
}

func (h *BookingHandler) transition(c *fiber.Ctx, from, to models.BookingStatus, teacherOnly bool) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.DB.WithContext(c.Context()).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "booking not found")
		}
		return fail500(c, "Server error")
	}

	if teacherOnly {
		if booking.TeacherID != uID {
			return httpError(c, fiber.StatusForbidden, "only the teacher can do this")
		}
	} else if booking.TeacherID != uID && booking.ClientID != uID {
		return httpError(c, fiber.StatusForbidden, "not a participant of this booking")
	}

	if booking.Status != from {
		return fail200(c, "Booking is not in a state that allows this")
	}

	booking.Status = to
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, from).
		Update("status", to).Error; err != nil {
		return fail500(c, "Failed to update booking")
	}

	if h.Hub != nil {
		h.Hub.SendToConversation(booking.ClientID, booking.TeacherID, fiber.Map{
			"type":    "booking_updated",
			"booking": booking,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking updated",
		"data":    booking,
	})
}
