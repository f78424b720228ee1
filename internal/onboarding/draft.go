package onboarding

import (
	"strings"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

// Step identifies one screen of the onboarding wizard.
type Step string

const (
	StepUserType       Step = "user-type"
	StepProfileDetails Step = "profile-details"
	StepTeacherDetails Step = "teacher-details"
	StepComplete       Step = "complete"
)

type ExperienceDraft struct {
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

type EducationDraft struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Description string `json:"description,omitempty"`
}

type TeacherDraft struct {
	Subjects    []string          `json:"subjects"`
	Location    string            `json:"location"`
	Fee         int64             `json:"fee"`
	About       string            `json:"about"`
	Tags        []string          `json:"tags,omitempty"`
	Experiences []ExperienceDraft `json:"experiences,omitempty"`
	Educations  []EducationDraft  `json:"educations,omitempty"`
}

type StudentDraft struct {
	Grade  string `json:"grade"`
	School string `json:"school"`
}

type ParentDraft struct {
	ChildrenCount  int    `json:"children_count"`
	ChildrenGrades string `json:"children_grades"`
}

// UserData is the accumulated answers. Email is deliberately absent: it
// always comes from the authenticated identity at completion time.
type UserData struct {
	UserType  models.UserType `json:"user_type"`
	FullName  string          `json:"full_name"`
	Phone     string          `json:"phone"`
	AvatarURL string          `json:"avatar_url"`

	Teacher *TeacherDraft `json:"teacher_profile,omitempty"`
	Student *StudentDraft `json:"student_profile,omitempty"`
	Parent  *ParentDraft  `json:"parent_profile,omitempty"`
}

// Draft is the in-flight onboarding state. It lives only in the draft store
// (never in the relational store) and is owned exclusively by the
// Controller. Discarded on completion.
type Draft struct {
	CurrentStep Step     `json:"current_step"`
	UserData    UserData `json:"user_data"`
}

func NewDraft() *Draft {
	return &Draft{CurrentStep: StepUserType}
}

// StepPayload is one step's submission. Nil fields are "not submitted" and
// leave the draft untouched.
type StepPayload struct {
	UserType  *models.UserType `json:"user_type,omitempty"`
	FullName  *string          `json:"full_name,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	AvatarURL *string          `json:"avatar_url,omitempty"`

	Teacher *TeacherPayload `json:"teacher_profile,omitempty"`
	Student *StudentDraft   `json:"student_profile,omitempty"`
	Parent  *ParentDraft    `json:"parent_profile,omitempty"`
}

// TeacherPayload mirrors TeacherDraft with optional fields so a later
// partial submission does not wipe earlier teacher answers.
type TeacherPayload struct {
	Subjects    []string          `json:"subjects,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Fee         *int64            `json:"fee,omitempty"`
	About       *string           `json:"about,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Experiences []ExperienceDraft `json:"experiences,omitempty"`
	Educations  []EducationDraft  `json:"educations,omitempty"`
}

// Merge folds a submission into the draft: shallow at the top level, while
// the nested teacher object is merged field by field, never replaced
// wholesale.
func (d *Draft) Merge(p StepPayload) {
	if p.UserType != nil {
		d.UserData.UserType = models.UserType(strings.ToLower(strings.TrimSpace(string(*p.UserType))))
	}
	if p.FullName != nil {
		d.UserData.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Phone != nil {
		d.UserData.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.AvatarURL != nil {
		d.UserData.AvatarURL = strings.TrimSpace(*p.AvatarURL)
	}
	if p.Student != nil {
		d.UserData.Student = p.Student
	}
	if p.Parent != nil {
		d.UserData.Parent = p.Parent
	}
	if p.Teacher != nil {
		if d.UserData.Teacher == nil {
			d.UserData.Teacher = &TeacherDraft{}
		}
		t := d.UserData.Teacher
		if p.Teacher.Subjects != nil {
			t.Subjects = p.Teacher.Subjects
		}
		if p.Teacher.Location != nil {
			t.Location = strings.TrimSpace(*p.Teacher.Location)
		}
		if p.Teacher.Fee != nil {
			t.Fee = *p.Teacher.Fee
		}
		if p.Teacher.About != nil {
			t.About = strings.TrimSpace(*p.Teacher.About)
		}
		if p.Teacher.Tags != nil {
			t.Tags = p.Teacher.Tags
		}
		if p.Teacher.Experiences != nil {
			t.Experiences = p.Teacher.Experiences
		}
		if p.Teacher.Educations != nil {
			t.Educations = p.Teacher.Educations
		}
	}
}
