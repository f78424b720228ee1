package onboarding

import "github.com/essjaykay755/teachersgallery-api/internal/models"

// transition is one row of the wizard's transition table. An empty userType
// matches any type; rows are tried in order, first match wins.
type transition struct {
	from     Step
	userType models.UserType
	to       Step
}

var transitions = []transition{
	{StepUserType, "", StepProfileDetails},
	{StepProfileDetails, models.UserTypeTeacher, StepTeacherDetails},
	{StepProfileDetails, "", StepComplete},
	{StepTeacherDetails, models.UserTypeTeacher, StepComplete},
}

// Next looks up the step that follows current for the given user type.
// Returns false when no transition exists (terminal or unknown state).
func Next(current Step, userType models.UserType) (Step, bool) {
	for _, t := range transitions {
		if t.from != current {
			continue
		}
		if t.userType == "" || t.userType == userType {
			return t.to, true
		}
	}
	return "", false
}
