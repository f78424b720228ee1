package onboarding

import "github.com/essjaykay755/teachersgallery-api/internal/models"

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// validateStep checks that the draft holds everything the given step must
// have produced before the wizard may advance past it.
func validateStep(step Step, d *Draft) FieldErrors {
	errs := FieldErrors{}

	switch step {
	case StepUserType:
		if !models.ValidUserType(d.UserData.UserType) {
			errs.Add("user_type", "user_type must be teacher, student or parent")
		}

	case StepProfileDetails:
		if d.UserData.FullName == "" {
			errs.Add("full_name", "full name is required")
		}

	case StepTeacherDetails:
		t := d.UserData.Teacher
		if t == nil {
			errs.Add("teacher_profile", "teacher details are required")
			break
		}
		if len(t.Subjects) == 0 {
			errs.Add("subjects", "at least one subject is required")
		}
		if t.Location == "" {
			errs.Add("location", "location is required")
		}
		if t.Fee <= 0 {
			errs.Add("fee", "fee must be greater than zero")
		}
		if t.About == "" {
			errs.Add("about", "about is required")
		}
	}

	return errs
}
