package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

func registerAndGetCookie(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Wizard User",
		"email":    email,
		"password": "secret123",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := findSessionCookie(resp)
	require.NotNil(t, cookie)
	return cookie
}

func TestOnboardingWizardTeacherFlow(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	cookie := registerAndGetCookie(t, app, "wizard-teacher@example.com")

	// fresh session starts at the first step
	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/onboarding", nil, cookie))
	require.NoError(t, err)
	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "user-type", data["current_step"])
	assert.Equal(t, false, data["completed"])

	// out-of-order submission is refused and reports where we are
	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "teacher-details",
		"payload": map[string]any{},
	}, cookie))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "user-type", body["current_step"])

	// step 1: pick the type
	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "user-type",
		"payload": map[string]any{"user_type": "teacher"},
	}, cookie))
	require.NoError(t, err)
	data = decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "profile-details", data["current_step"])

	// step 2: missing name blocks the step
	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "profile-details",
		"payload": map[string]any{},
	}, cookie))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["errors"].(map[string]any), "full_name")

	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "profile-details",
		"payload": map[string]any{"full_name": "Wizard Teacher"},
	}, cookie))
	require.NoError(t, err)
	data = decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "teacher-details", data["current_step"])

	// step 3: teacher details complete the wizard
	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step": "teacher-details",
		"payload": map[string]any{
			"teacher_profile": map[string]any{
				"subjects": []string{"Mathematics"},
				"location": "Kolkata",
				"fee":      700,
				"about":    "Experienced tutor.",
				"experiences": []map[string]any{
					{"title": "Tutor", "institution": "Self", "period": "2016-2019"},
				},
			},
		},
	}, cookie))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// completion re-issues the session with the new user type
	refreshed := findSessionCookie(resp)
	require.NotNil(t, refreshed, "completion must refresh the session cookie")
	assert.NotEqual(t, cookie.Value, refreshed.Value)

	body = decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data = body["data"].(map[string]any)
	assert.Equal(t, true, data["completed"])
	assert.Equal(t, "teacher", data["user_type"])

	var tp models.TeacherProfile
	require.NoError(t, db.First(&tp, "location = ?", "Kolkata").Error)
	var expCount int64
	require.NoError(t, db.Model(&models.TeacherExperience{}).
		Where("teacher_id = ?", tp.ID).Count(&expCount).Error)
	assert.Equal(t, int64(1), expCount)

	// the state endpoint now reports completion
	resp, err = app.Test(jsonReq(t, http.MethodGet, "/api/onboarding", nil, cookie))
	require.NoError(t, err)
	data = decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, true, data["completed"])

	// resubmitting after completion is refused
	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "user-type",
		"payload": map[string]any{"user_type": "student"},
	}, cookie))
	require.NoError(t, err)
	assert.Equal(t, false, decodeBody(t, resp)["success"])
}

func TestOnboardingWizardStudentFlow(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	cookie := registerAndGetCookie(t, app, "wizard-student@example.com")

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step":    "user-type",
		"payload": map[string]any{"user_type": "student"},
	}, cookie))
	require.NoError(t, err)
	require.Equal(t, true, decodeBody(t, resp)["success"])

	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/onboarding/step", map[string]any{
		"step": "profile-details",
		"payload": map[string]any{
			"full_name":       "Wizard Student",
			"student_profile": map[string]any{"grade": "10", "school": "DPS"},
		},
	}, cookie))
	require.NoError(t, err)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, true, data["completed"])
	assert.Equal(t, "student", data["user_type"])

	var sp models.StudentProfile
	require.NoError(t, db.First(&sp, "grade = ?", "10").Error)
	assert.Equal(t, "DPS", sp.School)
}
