package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

// TeacherStats returns the numbers on the teacher dashboard in one call.
func (h *DashboardHandler) TeacherStats(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var activeBookings int64
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Booking{}).
		Where("teacher_id = ? AND status IN ?", uID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusPaid}).
		Count(&activeBookings).Error; err != nil {
		return fail500(c, "Failed to load bookings")
	}

	var completedLessons int64
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Booking{}).
		Where("teacher_id = ? AND status = ?", uID, models.BookingStatusCompleted).
		Count(&completedLessons).Error; err != nil {
		return fail500(c, "Failed to load bookings")
	}

	// earnings count once the lesson is paid; completion does not change them
	var earnings struct {
		Total int64
	}
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(net_amount), 0) AS total").
		Where("teacher_id = ? AND status IN ?", uID,
			[]models.BookingStatus{models.BookingStatusPaid, models.BookingStatusCompleted}).
		Scan(&earnings).Error; err != nil {
		return fail500(c, "Failed to load earnings")
	}

	var unread int64
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.teacher_id = ?", uID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", uID, false).
		Count(&unread).Error; err != nil {
		return fail500(c, "Failed to load unread count")
	}

	var ratingStats struct {
		AvgRating   float64 `json:"avg_rating"`
		ReviewCount int64   `json:"review_count"`
	}
	if err := h.DB.WithContext(c.Context()).
		Table("reviews").
		Joins("JOIN teacher_profiles ON teacher_profiles.id = reviews.teacher_id").
		Select("COALESCE(AVG(reviews.rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("teacher_profiles.user_id = ?", uID).
		Scan(&ratingStats).Error; err != nil {
		return fail500(c, "Failed to load rating stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"active_bookings":   activeBookings,
			"completed_lessons": completedLessons,
			"total_earnings":    earnings.Total,
			"unread_messages":   unread,
			"avg_rating":        ratingStats.AvgRating,
			"review_count":      ratingStats.ReviewCount,
		},
	})
}
