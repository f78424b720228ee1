package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

type TeacherHandler struct {
	DB *gorm.DB
}

// TeacherCard is the browse-list projection: profile basics plus rating
// aggregates computed in the query.
type TeacherCard struct {
	models.TeacherProfile
	FullName    string  `json:"full_name"`
	AvatarURL   string  `json:"avatar_url"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

// ListPublic is the browse endpoint. Filters are all optional; subjects are
// stored as a JSON array so the subject filter does a text match against
// the serialized column.
func (h *TeacherHandler) ListPublic(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	q := h.DB.WithContext(c.Context()).
		Table("teacher_profiles").
		Select(`teacher_profiles.*,
			profiles.full_name AS full_name,
			profiles.avatar_url AS avatar_url,
			COALESCE((SELECT AVG(rating) FROM reviews WHERE reviews.teacher_id = teacher_profiles.id), 0) AS avg_rating,
			(SELECT COUNT(*) FROM reviews WHERE reviews.teacher_id = teacher_profiles.id) AS review_count`).
		Joins("JOIN profiles ON profiles.id = teacher_profiles.user_id")

	if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
		q = q.Where("CAST(teacher_profiles.subjects AS TEXT) LIKE ?", "%"+subject+"%")
	}
	if location := strings.TrimSpace(c.Query("location")); location != "" {
		q = q.Where("teacher_profiles.location LIKE ?", "%"+location+"%")
	}
	if minFee := c.QueryInt("min_fee", 0); minFee > 0 {
		q = q.Where("teacher_profiles.fee >= ?", minFee)
	}
	if maxFee := c.QueryInt("max_fee", 0); maxFee > 0 {
		q = q.Where("teacher_profiles.fee <= ?", maxFee)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail500(c, "Failed to count teachers")
	}

	var cards []TeacherCard
	if err := q.Order("teacher_profiles.is_verified DESC, teacher_profiles.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&cards).Error; err != nil {
		return fail500(c, "Failed to load teachers")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cards,
		"metadata": listMetadata{
			Total:   total,
			Page:    page,
			Limit:   limit,
			HasMore: int64(page*limit) < total,
		},
	})
}

// GetPublicProfile returns everything the public profile page renders in
// one call: profile, extension, sub-records, recent reviews and aggregate
// stats.
func (h *TeacherHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var tp models.TeacherProfile
	err = h.DB.WithContext(c.Context()).
		Preload("Experiences", func(db *gorm.DB) *gorm.DB {
			return db.Order("period DESC, created_at DESC")
		}).
		Preload("Educations", func(db *gorm.DB) *gorm.DB {
			return db.Order("year DESC, created_at DESC")
		}).
		First(&tp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "teacher not found")
		}
		return fail500(c, "Failed to load teacher")
	}

	var profile models.Profile
	if err := h.DB.WithContext(c.Context()).First(&profile, "id = ?", tp.UserID).Error; err != nil {
		return fail500(c, "Failed to load teacher")
	}

	var reviews []models.Review
	if err := h.DB.WithContext(c.Context()).
		Preload("Client").
		Where("teacher_id = ?", tp.ID).
		Order("created_at DESC").
		Limit(10).
		Find(&reviews).Error; err != nil {
		return fail500(c, "Failed to load reviews")
	}

	var stats struct {
		AvgRating   float64 `json:"avg_rating"`
		ReviewCount int64   `json:"review_count"`
	}
	if err := h.DB.WithContext(c.Context()).
		Table("reviews").
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("teacher_id = ?", tp.ID).
		Scan(&stats).Error; err != nil {
		return fail500(c, "Failed to load stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"teacher": tp,
			"profile": fiber.Map{
				"full_name":  profile.FullName,
				"avatar_url": profile.AvatarURL,
			},
			"reviews": reviews,
			"stats":   stats,
		},
	})
}
