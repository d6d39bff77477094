package models

import (
	"math"
	"time"
)

// EnrollmentStep identifies one step of the enrollment wizard.
type EnrollmentStep string

// Wizard steps, in their strict forward order.
const (
	StepPersonSelection   EnrollmentStep = "person_selection"
	StepCourseSelection   EnrollmentStep = "course_selection"
	StepFacilitySelection EnrollmentStep = "facility_selection"
	StepReviewPayment     EnrollmentStep = "review_payment"
	StepConfirmation      EnrollmentStep = "confirmation"
)

var stepOrder = []EnrollmentStep{
	StepPersonSelection,
	StepCourseSelection,
	StepFacilitySelection,
	StepReviewPayment,
	StepConfirmation,
}

// Steps returns the ordered step list.
func Steps() []EnrollmentStep {
	out := make([]EnrollmentStep, len(stepOrder))
	copy(out, stepOrder)
	return out
}

// Index returns the position of the step in the wizard order, or -1.
func (s EnrollmentStep) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether the step is a known wizard step.
func (s EnrollmentStep) Valid() bool {
	return s.Index() >= 0
}

// Next returns the following step and whether one exists.
func (s EnrollmentStep) Next() (EnrollmentStep, bool) {
	idx := s.Index()
	if idx < 0 || idx+1 >= len(stepOrder) {
		return s, false
	}
	return stepOrder[idx+1], true
}

// Prev returns the preceding step and whether one exists.
func (s EnrollmentStep) Prev() (EnrollmentStep, bool) {
	idx := s.Index()
	if idx <= 0 {
		return s, false
	}
	return stepOrder[idx-1], true
}

// FieldError is a field-scoped validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StepVerdict is the recorded validation outcome for one step. CanProceed
// follows IsValid unless a step is syntactically valid but blocked pending an
// external result (e.g. review awaiting finalization).
type StepVerdict struct {
	IsValid    bool         `json:"is_valid"`
	Errors     []FieldError `json:"errors,omitempty"`
	CanProceed bool         `json:"can_proceed"`
}

// ValidVerdict builds a passing verdict.
func ValidVerdict() StepVerdict {
	return StepVerdict{IsValid: true, CanProceed: true}
}

// InvalidVerdict builds a failing verdict with the given field errors.
func InvalidVerdict(errs ...FieldError) StepVerdict {
	return StepVerdict{IsValid: false, Errors: errs, CanProceed: false}
}

// PersonKind tags the person selection variant.
type PersonKind string

const (
	PersonKindExisting PersonKind = "existing"
	PersonKindDraft    PersonKind = "draft"
)

// DraftPerson holds the fields of a not-yet-created enrollee.
type DraftPerson struct {
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	BirthDate time.Time `json:"birth_date"`
}

// PersonRef is a tagged union over an existing enrollee reference and a draft
// record. Exactly one variant is populated, keyed by Kind.
type PersonRef struct {
	Kind       PersonKind   `json:"kind"`
	ExistingID string       `json:"existing_id,omitempty"`
	Draft      *DraftPerson `json:"draft,omitempty"`
}

// Validate enforces the exactly-one-variant invariant.
func (p PersonRef) Validate() []FieldError {
	var errs []FieldError
	switch p.Kind {
	case PersonKindExisting:
		if p.ExistingID == "" {
			errs = append(errs, FieldError{Field: "existing_id", Message: "existing person id is required"})
		}
		if p.Draft != nil {
			errs = append(errs, FieldError{Field: "draft", Message: "draft must be empty for an existing person"})
		}
	case PersonKindDraft:
		if p.ExistingID != "" {
			errs = append(errs, FieldError{Field: "existing_id", Message: "existing id must be empty for a draft person"})
		}
		if p.Draft == nil {
			errs = append(errs, FieldError{Field: "draft", Message: "draft person fields are required"})
			break
		}
		if p.Draft.FullName == "" {
			errs = append(errs, FieldError{Field: "draft.full_name", Message: "full name is required"})
		}
		if p.Draft.Email == "" {
			errs = append(errs, FieldError{Field: "draft.email", Message: "email is required"})
		}
		if p.Draft.BirthDate.IsZero() {
			errs = append(errs, FieldError{Field: "draft.birth_date", Message: "birth date is required"})
		}
	default:
		errs = append(errs, FieldError{Field: "kind", Message: "person kind must be existing or draft"})
	}
	return errs
}

// EnrollmentConfig is the chosen facility/pricing configuration.
type EnrollmentConfig struct {
	FacilityID   string       `json:"facility_id"`
	AgeGroup     string       `json:"age_group"`
	SessionType  SessionType  `json:"session_type"`
	LocationType LocationType `json:"location_type"`
}

// EnrollmentPricing is the computed price breakdown for one configuration.
// Revision records the accumulator revision the pricing was computed against,
// so stale results can be discarded (last-request-wins).
type EnrollmentPricing struct {
	BasePricePerSession      int64  `json:"base_price_per_session"`
	SessionsPerPayment       int    `json:"sessions_per_payment"`
	Subtotal                 int64  `json:"subtotal"`
	CouponDiscountAmount     *int64 `json:"coupon_discount_amount,omitempty"`
	TotalAmount              int64  `json:"total_amount"`
	MinimumPaymentPercentage int    `json:"minimum_payment_percentage"`
	MinimumPaymentAmount     int64  `json:"minimum_payment_amount"`
	Revision                 int64  `json:"revision"`
}

// SessionsAccessible derives how many sessions a payment grants. Below the
// minimum payment no access is granted at all; at or above it, access grows
// proportionally (floor) and reaches the full count at full payment. A zero
// total always grants the full count.
func (p EnrollmentPricing) SessionsAccessible(paymentAmount int64) int {
	if p.TotalAmount <= 0 {
		return p.SessionsPerPayment
	}
	if paymentAmount < p.MinimumPaymentAmount {
		return 0
	}
	capped := paymentAmount
	if capped > p.TotalAmount {
		capped = p.TotalAmount
	}
	sessions := int(math.Floor(float64(p.SessionsPerPayment) * float64(capped) / float64(p.TotalAmount)))
	if sessions > p.SessionsPerPayment {
		sessions = p.SessionsPerPayment
	}
	return sessions
}

// EnrollmentData is the wizard accumulator. It has exactly one writer, the
// currently active step, for the lifetime of one wizard session.
type EnrollmentData struct {
	Person         *PersonRef         `json:"person,omitempty"`
	CourseID       string             `json:"course_id,omitempty"`
	Config         *EnrollmentConfig  `json:"config,omitempty"`
	Pricing        *EnrollmentPricing `json:"pricing,omitempty"`
	CouponCode     string             `json:"coupon_code,omitempty"`
	CouponDiscount *int64             `json:"coupon_discount,omitempty"`
	CouponNotice   string             `json:"coupon_notice,omitempty"`
	PaymentStatus  PaymentStatus      `json:"payment_status,omitempty"`
	PaymentAmount  int64              `json:"payment_amount"`
	Result         *CourseAssignment  `json:"result,omitempty"`

	// ConfigRevision increases on every configuration-affecting edit; results
	// computed against an older revision must be discarded, never applied.
	ConfigRevision int64 `json:"config_revision"`
}

// WizardSession is one server-held run of the enrollment wizard.
type WizardSession struct {
	ID          string                         `json:"id"`
	CurrentStep EnrollmentStep                 `json:"current_step"`
	Verdicts    map[EnrollmentStep]StepVerdict `json:"verdicts"`
	Data        EnrollmentData                 `json:"data"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

// Verdict returns the recorded verdict for a step, defaulting to a failing one.
func (s *WizardSession) Verdict(step EnrollmentStep) StepVerdict {
	if s.Verdicts == nil {
		return StepVerdict{}
	}
	return s.Verdicts[step]
}

// RecordVerdict stores the verdict for exactly one step.
func (s *WizardSession) RecordVerdict(step EnrollmentStep, verdict StepVerdict) {
	if s.Verdicts == nil {
		s.Verdicts = make(map[EnrollmentStep]StepVerdict, len(stepOrder))
	}
	s.Verdicts[step] = verdict
}

// CanJumpTo reports whether jumping to the target step is allowed: backward
// and same-step jumps always are; forward jumps require every earlier step to
// hold a valid verdict.
func (s *WizardSession) CanJumpTo(target EnrollmentStep) bool {
	targetIdx := target.Index()
	if targetIdx < 0 {
		return false
	}
	if targetIdx <= s.CurrentStep.Index() {
		return true
	}
	for _, step := range stepOrder[:targetIdx] {
		if !s.Verdict(step).IsValid {
			return false
		}
	}
	return true
}
