package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

func strPtr(s string) *string                    { return &s }
func feePtr(v int64) *int64                      { return &v }
func typePtr(t models.UserType) *models.UserType { return &t }

func TestMergeLeavesUnsubmittedFieldsAlone(t *testing.T) {
	d := NewDraft()
	d.UserData.FullName = "Asha Verma"
	d.UserData.Phone = "9999999999"

	d.Merge(StepPayload{FullName: strPtr("Asha V")})

	assert.Equal(t, "Asha V", d.UserData.FullName)
	assert.Equal(t, "9999999999", d.UserData.Phone)
}

func TestMergeNormalizesUserType(t *testing.T) {
	d := NewDraft()
	d.Merge(StepPayload{UserType: typePtr(models.UserType("  Teacher "))})
	assert.Equal(t, models.UserTypeTeacher, d.UserData.UserType)
}

func TestMergeTeacherIsFieldWise(t *testing.T) {
	d := NewDraft()
	d.Merge(StepPayload{Teacher: &TeacherPayload{
		Subjects: []string{"Mathematics"},
		Location: strPtr("Kolkata"),
	}})

	// a later partial submission must not wipe earlier teacher answers
	d.Merge(StepPayload{Teacher: &TeacherPayload{
		Fee:   feePtr(800),
		About: strPtr("  Ten years of teaching.  "),
	}})

	assert.Equal(t, []string{"Mathematics"}, d.UserData.Teacher.Subjects)
	assert.Equal(t, "Kolkata", d.UserData.Teacher.Location)
	assert.Equal(t, int64(800), d.UserData.Teacher.Fee)
	assert.Equal(t, "Ten years of teaching.", d.UserData.Teacher.About)
}

func TestMergeTeacherSubRecords(t *testing.T) {
	d := NewDraft()
	d.Merge(StepPayload{Teacher: &TeacherPayload{
		Experiences: []ExperienceDraft{{Title: "Tutor", Institution: "Self", Period: "2019-2021"}},
	}})
	d.Merge(StepPayload{Teacher: &TeacherPayload{
		Educations: []EducationDraft{{Degree: "MSc", Institution: "JU", Year: "2018"}},
	}})

	assert.Len(t, d.UserData.Teacher.Experiences, 1)
	assert.Len(t, d.UserData.Teacher.Educations, 1)
}
