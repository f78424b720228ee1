package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

func TestExperienceCreateAndList(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, tp := seedTeacher(t, db, "exp@example.com")
	stranger, _ := seedTeacher(t, db, "exp-stranger@example.com")

	payload := map[string]any{
		"teacher_id":  tp.ID,
		"title":       "Senior Tutor",
		"institution": "ABC Academy",
		"period":      "2019-2023",
		"description": "Taught higher secondary mathematics.",
	}

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/experience", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/experience", payload,
		sessionCookie(t, stranger.ID.String(), "teacher")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// refused create must leave the table empty
	var count int64
	require.NoError(t, db.Model(&models.TeacherExperience{}).Count(&count).Error)
	assert.Zero(t, count)

	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/experience",
		map[string]any{"teacher_id": tp.ID, "title": "No period"},
		sessionCookie(t, owner.ID.String(), "teacher")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/experience", payload,
		sessionCookie(t, owner.ID.String(), "teacher")))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeBody(t, resp)["data"].(map[string]any)
	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["created_at"])

	resp, err = app.Test(jsonReq(t, http.MethodGet,
		"/api/experience?teacher_id="+tp.ID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	got := rows[0].(map[string]any)
	assert.Equal(t, created["id"], got["id"])
	assert.Equal(t, "Senior Tutor", got["title"])
	assert.Equal(t, "2019-2023", got["period"])
}

func TestExperienceDeleteRemovesRow(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, tp := seedTeacher(t, db, "expdel@example.com")

	row := models.TeacherExperience{
		TeacherID:   tp.ID,
		Title:       "Tutor",
		Institution: "Self",
		Period:      "2016-2019",
	}
	require.NoError(t, db.Create(&row).Error)

	resp, err := app.Test(jsonReq(t, http.MethodDelete, "/api/experience/"+row.ID.String(), nil,
		sessionCookie(t, owner.ID.String(), "teacher")))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonReq(t, http.MethodGet,
		"/api/experience?teacher_id="+tp.ID.String(), nil))
	require.NoError(t, err)
	assert.Empty(t, decodeBody(t, resp)["data"])
}
