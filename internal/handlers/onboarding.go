package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/onboarding"
	"github.com/essjaykay755/teachersgallery-api/internal/utils"
)

// AvatarStore is the slice of the object-storage client the handler needs
// for the avatar step. Nil means uploads are not configured.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, key string, file *multipart.FileHeader) (string, error)
}

type OnboardingHandler struct {
	Controller *onboarding.Controller
	Storage    AvatarStore
	JWTSecret  string
	Expires    int
}

// GetState returns the caller's onboarding position: either the completed
// profile or the in-flight draft with its current step.
func (h *OnboardingHandler) GetState(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var profile models.Profile
	if err := h.Controller.DB.WithContext(c.Context()).First(&profile, "id = ?", uID).Error; err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Onboarding complete",
			"data": fiber.Map{
				"current_step": onboarding.StepComplete,
				"completed":    true,
				"profile":      profile,
			},
		})
	}

	d, err := h.Controller.Current(c.Context(), uID)
	if err != nil {
		return fail500(c, "Failed to load onboarding state")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Onboarding in progress",
		"data": fiber.Map{
			"current_step": d.CurrentStep,
			"completed":    false,
			"user_data":    d.UserData,
		},
	})
}

type submitStepReq struct {
	Step    onboarding.Step        `json:"step"`
	Payload onboarding.StepPayload `json:"payload"`
}

// SubmitStep advances the wizard by one step. On the final step it creates
// the profile and re-issues the session cookie so the user type claim is
// live immediately.
func (h *OnboardingHandler) SubmitStep(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req submitStepReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}
	if req.Step == "" {
		return fail200(c, "Step is required")
	}

	result, fieldErrs, err := h.Controller.Submit(c.Context(), uID, req.Step, req.Payload)
	if len(fieldErrs) > 0 {
		return validationFail(c, FieldErrors(fieldErrs))
	}
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrAlreadyOnboarded):
			return fail200(c, "Onboarding already completed")
		case errors.Is(err, onboarding.ErrStepMismatch):
			return fail200(c, "Step out of order", fiber.Map{
				"current_step": h.currentStepOf(c, uID),
			})
		default:
			return fail500(c, "Failed to save step")
		}
	}

	if !result.Completed {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Step saved",
			"data": fiber.Map{
				"current_step": result.Draft.CurrentStep,
				"completed":    false,
			},
		})
	}

	// The session was issued before the user had a type; refresh it so the
	// claim matches the new profile.
	token, err := utils.SignJWT(h.JWTSecret, uID.String(), string(result.Profile.UserType), h.Expires)
	if err != nil {
		return fail500(c, "Profile created but session refresh failed")
	}
	setSessionCookie(c, token, h.Expires*60)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Onboarding complete",
		"data": fiber.Map{
			"current_step": onboarding.StepComplete,
			"completed":    true,
			"profile":      result.Profile,
			"user_type":    result.Profile.UserType,
		},
	})
}

func (h *OnboardingHandler) currentStepOf(c *fiber.Ctx, uID uuid.UUID) onboarding.Step {
	d, err := h.Controller.Current(c.Context(), uID)
	if err != nil {
		return onboarding.StepUserType
	}
	return d.CurrentStep
}

var allowedAvatarExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadAvatar stores an avatar image and returns its public URL. The URL
// is not persisted here; the client folds it into the next step submission
// (or a profile update after onboarding).
func (h *OnboardingHandler) UploadAvatar(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	if h.Storage == nil {
		return fail200(c, "Avatar upload is not configured")
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return fail200(c, "Avatar file is required")
	}
	if fh.Size > 2*1024*1024 {
		return fail200(c, "Avatar must be under 2MB")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedAvatarExt[ext] {
		return fail200(c, "Avatar must be jpg or png")
	}

	key := fmt.Sprintf("avatars/%s/%s%s", uID, uuid.NewString(), ext)
	url, err := h.Storage.UploadAvatar(c.Context(), key, fh)
	if err != nil {
		return fail500(c, "Failed to upload avatar")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Avatar uploaded",
		"data": fiber.Map{
			"avatar_url": url,
		},
	})
}
