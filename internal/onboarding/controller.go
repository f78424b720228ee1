package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
)

var (
	// ErrStepMismatch means the client submitted a step other than the
	// draft's current one (double submit, stale tab, skipped step).
	ErrStepMismatch = errors.New("onboarding: submitted step does not match current step")

	// ErrAlreadyOnboarded means a Profile already exists for this identity.
	ErrAlreadyOnboarded = errors.New("onboarding: profile already exists")
)

// BucketEnsurer is the slice of the object-storage client the controller
// needs: make sure the avatar bucket exists before a teacher goes live.
type BucketEnsurer interface {
	EnsureBucket(ctx context.Context) error
}

// Controller owns the Draft for the whole onboarding session. Nothing else
// reads or writes drafts, and nothing touches the relational store until
// the final step.
type Controller struct {
	DB      *gorm.DB
	Drafts  DraftStore
	Storage BucketEnsurer // optional
}

func NewController(db *gorm.DB, drafts DraftStore, storage BucketEnsurer) *Controller {
	return &Controller{DB: db, Drafts: drafts, Storage: storage}
}

// Current returns the user's in-flight draft, creating a fresh one when
// none exists.
func (c *Controller) Current(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	d, err := c.Drafts.Get(ctx, userID)
	if errors.Is(err, ErrDraftNotFound) {
		return NewDraft(), nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitResult is the outcome of one step submission.
type SubmitResult struct {
	Draft     *Draft
	Completed bool
	Profile   *models.Profile // set when Completed
}

// Submit merges one step's payload into the draft, validates it, and either
// advances to the next step or, when the table says "complete", runs the
// persistence sequence. On validation failure the draft is left as it was
// before the submission.
func (c *Controller) Submit(ctx context.Context, userID uuid.UUID, step Step, p StepPayload) (*SubmitResult, FieldErrors, error) {
	var existing models.Profile
	err := c.DB.WithContext(ctx).First(&existing, "id = ?", userID).Error
	if err == nil {
		return nil, nil, ErrAlreadyOnboarded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	d, err := c.Current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if d.CurrentStep != step {
		return nil, nil, ErrStepMismatch
	}

	merged := *d
	merged.Merge(p)

	if errs := validateStep(step, &merged); len(errs) > 0 {
		return nil, errs, nil
	}

	next, ok := Next(step, merged.UserData.UserType)
	if !ok {
		return nil, nil, ErrStepMismatch
	}

	if next != StepComplete {
		merged.CurrentStep = next
		if err := c.Drafts.Put(ctx, userID, &merged); err != nil {
			return nil, nil, err
		}
		return &SubmitResult{Draft: &merged}, nil, nil
	}

	profile, err := c.complete(ctx, userID, &merged)
	if err != nil {
		// keep the merged draft so the user can resubmit the final step
		if perr := c.Drafts.Put(ctx, userID, &merged); perr != nil {
			log.Printf("[Onboarding] failed to keep draft for %s: %v", userID, perr)
		}
		return nil, nil, err
	}

	if err := c.Drafts.Delete(ctx, userID); err != nil {
		log.Printf("[Onboarding] failed to discard draft for %s: %v", userID, err)
	}

	merged.CurrentStep = StepComplete
	return &SubmitResult{Draft: &merged, Completed: true, Profile: profile}, nil, nil
}

// complete runs the whole persistence sequence in one transaction:
// profile, then the type-specific extension, then any teacher sub-records.
// A failure anywhere rolls everything back, so resubmitting can never
// duplicate the profile row.
func (c *Controller) complete(ctx context.Context, userID uuid.UUID, d *Draft) (*models.Profile, error) {
	var user models.User
	if err := c.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("onboarding: user is inactive")
	}

	// Provisioning the avatar bucket is best-effort: a storage outage must
	// not block onboarding.
	if d.UserData.UserType == models.UserTypeTeacher && c.Storage != nil {
		if err := c.Storage.EnsureBucket(ctx); err != nil {
			log.Printf("[Onboarding] ensure bucket failed (ignored): %v", err)
		}
	}

	tx := c.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	profile := models.Profile{
		ID:        user.ID,
		FullName:  d.UserData.FullName,
		Email:     user.Email, // always from the identity, never user-edited
		Phone:     d.UserData.Phone,
		UserType:  d.UserData.UserType,
		AvatarURL: d.UserData.AvatarURL,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	switch d.UserData.UserType {
	case models.UserTypeTeacher:
		if err := c.createTeacherExtension(tx, &profile, d.UserData.Teacher); err != nil {
			tx.Rollback()
			return nil, err
		}
	case models.UserTypeStudent:
		sp := models.StudentProfile{UserID: profile.ID}
		if s := d.UserData.Student; s != nil {
			sp.Grade = s.Grade
			sp.School = s.School
		}
		if err := tx.Create(&sp).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case models.UserTypeParent:
		pp := models.ParentProfile{UserID: profile.ID}
		if p := d.UserData.Parent; p != nil {
			pp.ChildrenCount = p.ChildrenCount
			pp.ChildrenGrades = p.ChildrenGrades
		}
		if err := tx.Create(&pp).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	default:
		tx.Rollback()
		return nil, errors.New("onboarding: invalid user type")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Controller) createTeacherExtension(tx *gorm.DB, profile *models.Profile, t *TeacherDraft) error {
	if t == nil {
		return errors.New("onboarding: teacher draft missing")
	}

	subjects, err := json.Marshal(t.Subjects)
	if err != nil {
		return err
	}
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return err
	}

	tp := models.TeacherProfile{
		UserID:   profile.ID,
		Subjects: datatypes.JSON(subjects),
		Location: t.Location,
		Fee:      t.Fee,
		About:    t.About,
		Tags:     datatypes.JSON(tags),
	}
	if err := tx.Create(&tp).Error; err != nil {
		return err
	}

	if len(t.Experiences) > 0 {
		rows := make([]models.TeacherExperience, 0, len(t.Experiences))
		for _, e := range t.Experiences {
			rows = append(rows, models.TeacherExperience{
				TeacherID:   tp.ID,
				Title:       e.Title,
				Institution: e.Institution,
				Period:      e.Period,
				Description: e.Description,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(t.Educations) > 0 {
		rows := make([]models.TeacherEducation, 0, len(t.Educations))
		for _, e := range t.Educations {
			rows = append(rows, models.TeacherEducation{
				TeacherID:   tp.ID,
				Degree:      e.Degree,
				Institution: e.Institution,
				Year:        e.Year,
				Description: e.Description,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}
