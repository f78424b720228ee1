package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates the identity only. The user type and Profile come later
// from onboarding, so the session starts with an empty user type claim.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if name == "" {
		errs.Add("name", "Name is required")
	}
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "Invalid email format")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if phone != "" && len(phone) < 8 {
		errs.Add("phone", "Invalid phone number")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		dup := FieldErrors{}
		dup.Add("email", "Email already registered")
		return validationFail(c, dup)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "Server error")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password")
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: pw,
		Provider: "local",
		IsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Registration failed",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), "", h.Expires)
	if err != nil {
		return fail500(c, "Failed to create token")
	}
	setSessionCookie(c, token, h.Expires*60)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"phone": u.Phone,
			},
			"has_profile": false,
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return fail200(c, "Wrong email or password")
	}
	if !u.IsActive {
		return fail200(c, "Account is inactive")
	}
	if !utils.CheckPassword(u.Password, password) {
		return fail200(c, "Wrong email or password")
	}

	// The user type claim comes from the Profile; empty when the user has
	// not finished onboarding yet.
	userType := ""
	hasProfile := false
	var profile models.Profile
	err := h.DB.First(&profile, "id = ?", u.ID).Error
	switch {
	case err == nil:
		userType = string(profile.UserType)
		hasProfile = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fail500(c, "Server error")
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), userType, h.Expires)
	if err != nil {
		return fail200(c, "Failed to create token")
	}
	setSessionCookie(c, token, h.Expires*60)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged in",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
			},
			"user_type":   userType,
			"has_profile": hasProfile,
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	setSessionCookie(c, "", -1)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
