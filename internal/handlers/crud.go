package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

// The education/experience endpoints are a REST-ish surface consumed by
// the profile editor, so unlike the form endpoints they speak in plain
// HTTP status codes and a {data, metadata} list shape.

var validate = validator.New()

const maxPageLimit = 50

type listMetadata struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

// pageParams reads page/limit from the query, clamping limit to the cap no
// matter what the client asks for.
func pageParams(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func httpError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func validationError(c *fiber.Ctx, err error) error {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// requireTeacherOwnership loads the teacher profile and checks the caller
// owns it. It never writes the response itself: a failure comes back as a
// *fiber.Error and the caller renders it, so the handler cannot keep going
// after a refusal.
func requireTeacherOwnership(c *fiber.Ctx, db *gorm.DB, teacherID uuid.UUID) (*models.TeacherProfile, *fiber.Error) {
	uID, err := getAuth(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var tp models.TeacherProfile
	if err := db.WithContext(c.Context()).First(&tp, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "teacher profile not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "server error")
	}

	if tp.UserID != uID {
		return nil, fiber.NewError(fiber.StatusForbidden, "not the owner of this teacher profile")
	}
	return &tp, nil
}
