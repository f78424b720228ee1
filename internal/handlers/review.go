package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

type createReviewReq struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

// Create lets the paying client review a completed booking, once.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req createReviewReq
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
		return fail200(c, "Only the booking's client can review it")
	}
	if booking.Status != models.BookingStatusCompleted {
		return fail200(c, "Only completed bookings can be reviewed")
	}

	var existing models.Review
	if err := h.DB.WithContext(c.Context()).First(&existing, "booking_id = ?", booking.ID).Error; err == nil {
		return fail200(c, "This booking has already been reviewed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Server error")
	}

	// reviews hang off the teacher extension row, not the teacher user id
	var tp models.TeacherProfile
	if err := h.DB.WithContext(c.Context()).First(&tp, "user_id = ?", booking.TeacherID).Error; err != nil {
		return fail500(c, "Teacher profile missing for booking")
	}

	review := models.Review{
		BookingID: booking.ID,
		TeacherID: tp.ID,
		ClientID:  uID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.DB.WithContext(c.Context()).Create(&review).Error; err != nil {
		return fail500(c, "Failed to save review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review saved",
		"data":    review,
	})
}

// ListForTeacher is public: reviews for one teacher profile, newest first.
func (h *ReviewHandler) ListForTeacher(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}
	page, limit := pageParams(c)

	q := h.DB.WithContext(c.Context()).Model(&models.Review{}).
		Where("teacher_id = ?", teacherID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail500(c, "Failed to count reviews")
	}

	var rows []models.Review
	if err := q.Preload("Client").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return fail500(c, "Failed to load reviews")
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
