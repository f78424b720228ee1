package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

type EducationHandler struct {
	DB *gorm.DB
}

// List is public: anyone can read a teacher's education history.
func (h *EducationHandler) List(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Query("teacher_id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "teacher_id is required")
	}
	page, limit := pageParams(c)

	q := h.DB.WithContext(c.Context()).Model(&models.TeacherEducation{}).
		Where("teacher_id = ?", teacherID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	var rows []models.TeacherEducation
	if err := q.Order("year DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	return c.JSON(fiber.Map{
		"data": rows,
		"metadata": listMetadata{
			Total:   total,
			Page:    page,
			Limit:   limit,
			HasMore: int64(page*limit) < total,
		},
	})
}

type educationReq struct {
	TeacherID   uuid.UUID `json:"teacher_id" validate:"required"`
	Degree      string    `json:"degree" validate:"required,max=150"`
	Institution string    `json:"institution" validate:"required,max=150"`
	Year        string    `json:"year" validate:"required,max=20"`
	Description string    `json:"description" validate:"max=2000"`
}

func (h *EducationHandler) Create(c *fiber.Ctx) error {
	var req educationReq
	if err := c.BodyParser(&req); err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	tp, ferr := requireTeacherOwnership(c, h.DB, req.TeacherID)
	if ferr != nil {
		return httpError(c, ferr.Code, ferr.Message)
	}

	row := models.TeacherEducation{
		TeacherID:   tp.ID,
		Degree:      req.Degree,
		Institution: req.Institution,
		Year:        req.Year,
		Description: req.Description,
	}
	if err := h.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to create education")
	}

	return c.JSON(fiber.Map{"data": row})
}

type educationUpdateReq struct {
	Degree      string `json:"degree" validate:"required,max=150"`
	Institution string `json:"institution" validate:"required,max=150"`
	Year        string `json:"year" validate:"required,max=20"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *EducationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req educationUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	var row models.TeacherEducation
	if err := h.DB.WithContext(c.Context()).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "education not found")
		}
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	if _, ferr := requireTeacherOwnership(c, h.DB, row.TeacherID); ferr != nil {
		return httpError(c, ferr.Code, ferr.Message)
	}

	row.Degree = req.Degree
	row.Institution = req.Institution
	row.Year = req.Year
	row.Description = req.Description
	if err := h.DB.WithContext(c.Context()).Save(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to update education")
	}

	return c.JSON(fiber.Map{"data": row})
}

func (h *EducationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var row models.TeacherEducation
	if err := h.DB.WithContext(c.Context()).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "education not found")
		}
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	if _, ferr := requireTeacherOwnership(c, h.DB, row.TeacherID); ferr != nil {
		return httpError(c, ferr.Code, ferr.Message)
	}

	if err := h.DB.WithContext(c.Context()).Delete(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to delete education")
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
