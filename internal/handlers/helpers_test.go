package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/essjaykay755/teachersgallery-api/internal/middleware"
	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/onboarding"
	"github.com/essjaykay755/teachersgallery-api/internal/utils"
)

const testJWTSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.TeacherProfile{},
		&models.TeacherExperience{},
		&models.TeacherEducation{},
		&models.StudentProfile{},
		&models.ParentProfile{},
		&models.Conversation{},
		&models.ConversationMemberRead{},
		&models.Message{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
	))
	return db
}

// newTestApp wires the HTTP surface the way main does, minus the pieces
// that need external services.
func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	app := fiber.New()
	api := app.Group("/api")

	requireAuth := middleware.JWTFromCookie(testJWTSecret)
	attachLocals := middleware.AttachJWTLocals()

	auth := &AuthHandler{DB: db, JWTSecret: testJWTSecret, Expires: 60}
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/logout", auth.Logout)

	ctl := onboarding.NewController(db, onboarding.NewMemoryDraftStore(), nil)
	onboard := &OnboardingHandler{Controller: ctl, JWTSecret: testJWTSecret, Expires: 60}
	api.Get("/onboarding", requireAuth, attachLocals, onboard.GetState)
	api.Post("/onboarding/step", requireAuth, attachLocals, onboard.SubmitStep)

	education := &EducationHandler{DB: db}
	api.Get("/education", education.List)
	api.Post("/education", requireAuth, attachLocals, education.Create)
	api.Put("/education/:id", requireAuth, attachLocals, education.Update)
	api.Delete("/education/:id", requireAuth, attachLocals, education.Delete)

	experience := &ExperienceHandler{DB: db}
	api.Get("/experience", experience.List)
	api.Post("/experience", requireAuth, attachLocals, experience.Create)
	api.Put("/experience/:id", requireAuth, attachLocals, experience.Update)
	api.Delete("/experience/:id", requireAuth, attachLocals, experience.Delete)

	teachers := &TeacherHandler{DB: db}
	api.Get("/teachers", teachers.ListPublic)
	api.Get("/teachers/:id", teachers.GetPublicProfile)
	api.Get("/subjects", (&SubjectHandler{DB: db}).List)

	return app
}

func sessionCookie(t *testing.T, userID, userType string) *http.Cookie {
	t.Helper()
	token, err := utils.SignJWT(testJWTSecret, userID, userType, 60)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func jsonReq(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *http.Request {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedTeacher creates a user, profile and teacher extension ready for the
// sub-record endpoints.
func seedTeacher(t *testing.T, db *gorm.DB, email string) (*models.User, *models.TeacherProfile) {
	t.Helper()

	u := models.User{Name: "T", Email: email, Password: "x", Provider: "local", IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	p := models.Profile{
		ID:       u.ID,
		FullName: "Teacher " + email,
		Email:    email,
		UserType: models.UserTypeTeacher,
	}
	require.NoError(t, db.Create(&p).Error)

	tp := models.TeacherProfile{
		UserID:   p.ID,
		Subjects: []byte(`["Mathematics"]`),
		Location: "Kolkata",
		Fee:      700,
		About:    "About.",
		Tags:     []byte(`[]`),
	}
	require.NoError(t, db.Create(&tp).Error)
	return &u, &tp
}
