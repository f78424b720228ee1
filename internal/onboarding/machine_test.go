package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name     string
		current  Step
		userType models.UserType
		want     Step
		ok       bool
	}{
		{"start goes to profile details", StepUserType, models.UserTypeStudent, StepProfileDetails, true},
		{"start without type still advances", StepUserType, "", StepProfileDetails, true},
		{"student finishes after profile details", StepProfileDetails, models.UserTypeStudent, StepComplete, true},
		{"parent finishes after profile details", StepProfileDetails, models.UserTypeParent, StepComplete, true},
		{"teacher gets the extra step", StepProfileDetails, models.UserTypeTeacher, StepTeacherDetails, true},
		{"teacher details completes", StepTeacherDetails, models.UserTypeTeacher, StepComplete, true},
		{"complete is terminal", StepComplete, models.UserTypeStudent, "", false},
		{"unknown step", Step("nonsense"), models.UserTypeStudent, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Next(tc.current, tc.userType)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
