package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

type ExperienceHandler struct {
	DB *gorm.DB
}

func (h *ExperienceHandler) List(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Query("teacher_id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "teacher_id is required")
	}
	page, limit := pageParams(c)

	q := h.DB.WithContext(c.Context()).Model(&models.TeacherExperience{}).
		Where("teacher_id = ?", teacherID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	var rows []models.TeacherExperience
	if err := q.Order("period DESC, created_at DESC").
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

type experienceReq struct {
	TeacherID   uuid.UUID `json:"teacher_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=150"`
	Institution string    `json:"institution" validate:"required,max=150"`
	Period      string    `json:"period" validate:"required,max=50"`
	Description string    `json:"description" validate:"max=2000"`
}

func (h *ExperienceHandler) Create(c *fiber.Ctx) error {
	var req experienceReq
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

	row := models.TeacherExperience{
		TeacherID:   tp.ID,
		Title:       req.Title,
		Institution: req.Institution,
		Period:      req.Period,
		Description: req.Description,
	}
	if err := h.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to create experience")
	}

	return c.JSON(fiber.Map{"data": row})
}

type experienceUpdateReq struct {
	Title       string `json:"title" validate:"required,max=150"`
	Institution string `json:"institution" validate:"required,max=150"`
	Period      string `json:"period" validate:"required,max=50"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *ExperienceHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req experienceUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	var row models.TeacherExperience
	if err := h.DB.WithContext(c.Context()).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "experience not found")
		}
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	if _, ferr := requireTeacherOwnership(c, h.DB, row.TeacherID); ferr != nil {
		return httpError(c, ferr.Code, ferr.Message)
	}

	row.Title = req.Title
	row.Institution = req.Institution
	row.Period = req.Period
	row.Description = req.Description
	if err := h.DB.WithContext(c.Context()).Save(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to update experience")
	}

	return c.JSON(fiber.Map{"data": row})
}

func (h *ExperienceHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	var row models.TeacherExperience
	if err := h.DB.WithContext(c.Context()).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpError(c, fiber.StatusNotFound, "experience not found")
		}
		return httpError(c, fiber.StatusInternalServerError, "server error")
	}

	if _, ferr := requireTeacherOwnership(c, h.DB, row.TeacherID); ferr != nil {
		return httpError(c, ferr.Code, ferr.Message)
	}

	if err := h.DB.WithContext(c.Context()).Delete(&row).Error; err != nil {
		return httpError(c, fiber.StatusInternalServerError, "failed to delete experience")
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
