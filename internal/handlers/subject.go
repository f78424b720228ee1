package handlers

import (
	"encoding/json"
	"sort"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubjectHandler struct {
	DB *gorm.DB
}

// List returns the distinct subjects taught across all teacher profiles.
// Subjects live in a JSON array column, so the dedup happens here rather
// than in SQL.
func (h *SubjectHandler) List(c *fiber.Ctx) error {
	var raws [][]byte
	if err := h.DB.WithContext(c.Context()).
		Table("teacher_profiles").
		Pluck("subjects", &raws).Error; err != nil {
		return fail500(c, "Failed to load subjects")
	}

	seen := map[string]bool{}
	subjects := []string{}
	for _, raw := range raws {
		if len(raw) == 0 {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			continue
		}
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			subjects = append(subjects, s)
		}
	}
	sort.Strings(subjects)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subjects,
	})
}
