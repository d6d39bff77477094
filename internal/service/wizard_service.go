package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type wizardSessionStore interface {
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	Save(ctx context.Context, session *models.WizardSession) error
	Delete(ctx context.Context, id string) error
}

// ConfigureRequest is the facility selection step payload: the configuration
// axes plus an optional coupon code.
type ConfigureRequest struct {
	FacilityID   string              `json:"facility_id" validate:"required"`
	AgeGroup     string              `json:"age_group" validate:"required"`
	SessionType  models.SessionType  `json:"session_type" validate:"required,oneof=private group school_group"`
	LocationType models.LocationType `json:"location_type" validate:"required,oneof=our-facility client-location virtual"`
	CouponCode   string              `json:"coupon_code,omitempty"`
}

// WizardService runs enrollment wizard sessions: one accumulator per session,
// written only through the currently active step, with step verdicts gating
// every forward movement.
type WizardService struct {
	sessions     wizardSessionStore
	students     eligibilityStudentReader
	courses      pricingCourseReader
	eligibility  *EligibilityService
	availability *AvailabilityService
	pricing      *PricingService
	finalizer    *AssignmentService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewWizardService constructs WizardService.
func NewWizardService(
	sessions wizardSessionStore,
	students eligibilityStudentReader,
	courses pricingCourseReader,
	eligibility *EligibilityService,
	availability *AvailabilityService,
	pricing *PricingService,
	finalizer *AssignmentService,
	validate *validator.Validate,
	logger *zap.Logger,
) *WizardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		sessions:     sessions,
		students:     students,
		courses:      courses,
		eligibility:  eligibility,
		availability: availability,
		pricing:      pricing,
		finalizer:    finalizer,
		validator:    validate,
		logger:       logger,
	}
}

// Start opens a fresh session at the first step.
func (s *WizardService) Start(ctx context.Context) (*models.WizardSession, error) {
	session := &models.WizardSession{
		ID:          uuid.NewString(),
		CurrentStep: models.StepPersonSelection,
		Verdicts:    make(map[models.EnrollmentStep]models.StepVerdict),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create wizard session")
	}
	return session, nil
}

// Get loads a session by id.
func (s *WizardService) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	return s.sessions.Get(ctx, id)
}

// Reset clears the accumulator and all verdicts, returning the session to the
// first step.
func (s *WizardService) Reset(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.CurrentStep = models.StepPersonSelection
	session.Verdicts = make(map[models.EnrollmentStep]models.StepVerdict)
	session.Data = models.EnrollmentData{}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// Delete discards a session.
func (s *WizardService) Delete(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// requireStep loads the session and checks the active step, since only the
// active step may write into the accumulator.
func (s *WizardService) requireStep(ctx context.Context, id string, step models.EnrollmentStep) (*models.WizardSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != step {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "this operation belongs to the "+string(step)+" step")
	}
	return session, nil
}

// invalidateFrom drops the accumulator fields and verdicts owned by the given
// step and everything after it. Editing an earlier step makes later results
// stale, so they must be recomputed rather than trusted.
func invalidateFrom(session *models.WizardSession, step models.EnrollmentStep) {
	idx := step.Index()
	for _, later := range models.Steps() {
		if later.Index() >= idx {
			delete(session.Verdicts, later)
		}
	}
	if idx <= models.StepCourseSelection.Index() {
		session.Data.CourseID = ""
	}
	if idx <= models.StepFacilitySelection.Index() {
		session.Data.Config = nil
		session.Data.Pricing = nil
		session.Data.CouponCode = ""
		session.Data.CouponDiscount = nil
		session.Data.CouponNotice = ""
	}
	if idx <= models.StepReviewPayment.Index() {
		session.Data.PaymentStatus = ""
		session.Data.PaymentAmount = 0
		session.Data.Result = nil
	}
}

// SelectPerson records the enrollee choice for the person selection step.
func (s *WizardService) SelectPerson(ctx context.Context, id string, person models.PersonRef) (*models.WizardSession, error) {
	session, err := s.requireStep(ctx, id, models.StepPersonSelection)
	if err != nil {
		return nil, err
	}

	errs := person.Validate()
	if len(errs) == 0 && person.Kind == models.PersonKindExisting {
		if _, err := s.students.FindByID(ctx, person.ExistingID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				errs = append(errs, models.FieldError{Field: "existing_id", Message: "student not found"})
			} else {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
			}
		}
	}

	invalidateFrom(session, models.StepCourseSelection)
	session.Data.ConfigRevision++
	if len(errs) > 0 {
		session.Data.Person = nil
		session.RecordVerdict(models.StepPersonSelection, models.InvalidVerdict(errs...))
	} else {
		session.Data.Person = &person
		session.RecordVerdict(models.StepPersonSelection, models.ValidVerdict())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

func (s *WizardService) personBirthDate(ctx context.Context, person *models.PersonRef) (time.Time, error) {
	switch person.Kind {
	case models.PersonKindExisting:
		student, err := s.students.FindByID(ctx, person.ExistingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		return student.BirthDate, nil
	case models.PersonKindDraft:
		return person.Draft.BirthDate, nil
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "person kind must be existing or draft")
}

// SelectCourse records the course choice, gated on age eligibility. An
// ineligible person yields a failing verdict on the step, not an error.
func (s *WizardService) SelectCourse(ctx context.Context, id, courseID string) (*models.WizardSession, error) {
	session, err := s.requireStep(ctx, id, models.StepCourseSelection)
	if err != nil {
		return nil, err
	}
	if session.Data.Person == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "person must be selected first")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	birthDate, err := s.personBirthDate(ctx, session.Data.Person)
	if err != nil {
		return nil, err
	}

	invalidateFrom(session, models.StepFacilitySelection)
	session.Data.ConfigRevision++

	result := s.eligibility.Evaluate(birthDate, course.AgeGroups, time.Now().UTC())
	if !result.IsEligible {
		session.Data.CourseID = ""
		session.RecordVerdict(models.StepCourseSelection, models.InvalidVerdict(EligibilityFieldError(result.Age)))
	} else {
		session.Data.CourseID = course.ID
		session.RecordVerdict(models.StepCourseSelection, models.ValidVerdict())
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// Configure records the facility configuration, checks availability and
// recomputes pricing. Every call bumps the accumulator revision; a pricing
// result computed against an older revision is discarded, never applied.
func (s *WizardService) Configure(ctx context.Context, id string, req ConfigureRequest) (*models.WizardSession, error) {
	session, err := s.requireStep(ctx, id, models.StepFacilitySelection)
	if err != nil {
		return nil, err
	}
	if session.Data.CourseID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course must be selected first")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility configuration")
	}

	invalidateFrom(session, models.StepReviewPayment)
	session.Data.ConfigRevision++
	revision := session.Data.ConfigRevision
	courseID := session.Data.CourseID

	session.Data.Config = &models.EnrollmentConfig{
		FacilityID:   req.FacilityID,
		AgeGroup:     req.AgeGroup,
		SessionType:  req.SessionType,
		LocationType: req.LocationType,
	}
	session.Data.Pricing = nil
	session.Data.CouponCode = ""
	session.Data.CouponDiscount = nil
	session.Data.CouponNotice = ""

	availability, err := s.availability.Validate(ctx, courseID, req.FacilityID, req.AgeGroup, req.SessionType, req.LocationType)
	if err != nil {
		return nil, err
	}
	if availability.Status != models.AvailabilityAvailable {
		message := "facility has no pricing configured for this course"
		if availability.Status == models.AvailabilityNotAvailable {
			message = "requested combination has no active pricing at this facility"
		}
		session.RecordVerdict(models.StepFacilitySelection, models.InvalidVerdict(models.FieldError{Field: "facility_id", Message: message}))
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
		}
		return session, nil
	}

	result, err := s.pricing.Calculate(ctx, PricingRequest{
		CourseID:     courseID,
		FacilityID:   req.FacilityID,
		AgeGroup:     req.AgeGroup,
		SessionType:  req.SessionType,
		LocationType: req.LocationType,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	if session.Data.ConfigRevision != revision {
		// A concurrent edit moved the accumulator on; this result is stale.
		return session, nil
	}

	pricing := result.Pricing
	pricing.Revision = revision
	session.Data.Pricing = &pricing

	if result.Coupon != nil {
		if result.Coupon.IsValid {
			session.Data.CouponCode = req.CouponCode
			discount := result.Coupon.DiscountAmount
			session.Data.CouponDiscount = &discount
		} else {
			session.Data.CouponNotice = result.Coupon.ErrorMessage
		}
	}

	session.RecordVerdict(models.StepFacilitySelection, models.ValidVerdict())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// SetPayment records the payment status and amount for the review step. A
// valid payment still leaves the step blocked until finalization succeeds.
func (s *WizardService) SetPayment(ctx context.Context, id string, status models.PaymentStatus, amount int64) (*models.WizardSession, error) {
	session, err := s.requireStep(ctx, id, models.StepReviewPayment)
	if err != nil {
		return nil, err
	}
	if session.Data.Pricing == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "pricing must be computed first")
	}

	session.Data.PaymentStatus = status
	session.Data.PaymentAmount = amount
	session.Data.Result = nil

	if errs := ValidatePayment(session.Data.Pricing, status, amount); len(errs) > 0 {
		session.RecordVerdict(models.StepReviewPayment, models.InvalidVerdict(errs...))
	} else {
		session.RecordVerdict(models.StepReviewPayment, models.StepVerdict{IsValid: true, CanProceed: false})
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// Finalize submits the completed configuration. On success the session moves
// to confirmation; on failure it stays at review with its data intact.
func (s *WizardService) Finalize(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.requireStep(ctx, id, models.StepReviewPayment)
	if err != nil {
		return nil, err
	}
	if !session.Verdict(models.StepReviewPayment).IsValid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "payment details must be valid before finalizing")
	}

	assignment, err := s.finalizer.Finalize(ctx, &session.Data)
	if err != nil {
		return nil, err
	}

	session.Data.Result = assignment
	session.RecordVerdict(models.StepReviewPayment, models.ValidVerdict())
	session.RecordVerdict(models.StepConfirmation, models.ValidVerdict())
	session.CurrentStep = models.StepConfirmation

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("assignment created but wizard session could not be saved",
			zap.String("session_id", session.ID),
			zap.String("assignment_id", assignment.ID),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// Advance moves one step forward, gated on the current step's verdict.
func (s *WizardService) Advance(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	verdict := session.Verdict(session.CurrentStep)
	if !verdict.CanProceed {
		if session.CurrentStep == models.StepReviewPayment && verdict.IsValid {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment must be finalized before continuing")
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "current step is not complete")
	}
	next, ok := session.CurrentStep.Next()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "already at the last step")
	}
	session.CurrentStep = next
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// Retreat moves one step backward. Backward movement is always allowed except
// off the first step or out of a completed wizard.
func (s *WizardService) Retreat(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep == models.StepConfirmation && session.Data.Result != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "enrollment is already finalized")
	}
	prev, ok := session.CurrentStep.Prev()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "already at the first step")
	}
	session.CurrentStep = prev
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}

// JumpTo moves directly to a step: backward always, forward only past steps
// that already validated.
func (s *WizardService) JumpTo(ctx context.Context, id string, target models.EnrollmentStep) (*models.WizardSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown wizard step")
	}
	if session.Data.Result != nil && target != models.StepConfirmation {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "enrollment is already finalized")
	}
	if target == models.StepConfirmation && session.Data.Result == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment must be finalized before continuing")
	}
	if !session.CanJumpTo(target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStep, "earlier steps must be completed first")
	}
	session.CurrentStep = target
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	return session, nil
}
