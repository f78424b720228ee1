package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

func TestListPublicFilters(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)

	_, math := seedTeacher(t, db, "math@example.com") // Mathematics, Kolkata, 700

	u2 := models.User{Name: "P", Email: "physics@example.com", Password: "x", Provider: "local", IsActive: true}
	require.NoError(t, db.Create(&u2).Error)
	require.NoError(t, db.Create(&models.Profile{
		ID: u2.ID, FullName: "Physics Teacher", Email: u2.Email, UserType: models.UserTypeTeacher,
	}).Error)
	require.NoError(t, db.Create(&models.TeacherProfile{
		UserID:   u2.ID,
		Subjects: []byte(`["Physics"]`),
		Location: "Delhi",
		Fee:      1200,
		About:    "About.",
		Tags:     []byte(`[]`),
	}).Error)

	t.Run("no filter returns all", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/teachers", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["data"], 2)
		assert.Equal(t, float64(2), body["metadata"].(map[string]any)["total"])
	})

	t.Run("subject filter", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/teachers?subject=Mathematics", nil))
		require.NoError(t, err)
		body := decodeBody(t, resp)
		rows := body["data"].([]any)
		require.Len(t, rows, 1)
		assert.Equal(t, math.ID.String(), rows[0].(map[string]any)["id"])
	})

	t.Run("fee range filter", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/teachers?min_fee=1000", nil))
		require.NoError(t, err)
		rows := decodeBody(t, resp)["data"].([]any)
		require.Len(t, rows, 1)
		assert.Equal(t, "Delhi", rows[0].(map[string]any)["location"])
	})
}

func TestGetPublicProfile(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	_, tp := seedTeacher(t, db, "public@example.com")

	require.NoError(t, db.Create(&models.TeacherEducation{
		TeacherID: tp.ID, Degree: "MSc", Institution: "JU", Year: "2016",
	}).Error)

	t.Run("found", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/teachers/"+tp.ID.String(), nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		teacher := data["teacher"].(map[string]any)
		assert.Equal(t, tp.ID.String(), teacher["id"])
		assert.Len(t, teacher["educations"], 1)
		assert.NotEmpty(t, data["profile"].(map[string]any)["full_name"])
	})

	t.Run("missing is 404", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodGet,
			"/api/teachers/9b4f1f5e-0000-4000-8000-000000000000", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSubjectsDeduped(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	seedTeacher(t, db, "s1@example.com")

	u := models.User{Name: "S2", Email: "s2@example.com", Password: "x", Provider: "local", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&models.Profile{
		ID: u.ID, FullName: "S2", Email: u.Email, UserType: models.UserTypeTeacher,
	}).Error)
	require.NoError(t, db.Create(&models.TeacherProfile{
		UserID:   u.ID,
		Subjects: []byte(`["Mathematics","Chemistry"]`),
		Location: "Pune",
		Fee:      500,
		About:    "About.",
		Tags:     []byte(`[]`),
	}).Error)

	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/subjects", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	subjects := decodeBody(t, resp)["data"].([]any)
	assert.ElementsMatch(t, []any{"Chemistry", "Mathematics"}, subjects)
}
