package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/export"
	"github.com/rakhadian/academy-admin-api/pkg/jobs"
)

type receiptStorage interface {
	Save(filename string, data []byte) (string, error)
	Exists(filename string) bool
	Path(filename string) string
}

type receiptSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
}

type assignmentDetailReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
}

// ReceiptLink points at a generated receipt document.
type ReceiptLink struct {
	AssignmentID string    `json:"assignment_id"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ReceiptService renders payment receipts for finalized assignments in the
// background and hands out signed download tokens.
type ReceiptService struct {
	assignments assignmentDetailReader
	pdf         *export.PDFExporter
	storage     receiptStorage
	signer      receiptSigner
	queue       *jobs.Queue
	logger      *zap.Logger
}

// NewReceiptService constructs ReceiptService. Call Start before enqueueing.
func NewReceiptService(assignments assignmentDetailReader, storage receiptStorage, signer receiptSigner, cfg jobs.QueueConfig, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReceiptService{
		assignments: assignments,
		pdf:         export.NewPDFExporter(),
		storage:     storage,
		signer:      signer,
		logger:      logger,
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("receipts", s.handle, cfg)
	return s
}

// Start launches the background workers.
func (s *ReceiptService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *ReceiptService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules receipt generation for an assignment.
func (s *ReceiptService) Enqueue(assignmentID string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "receipt",
		Payload: assignmentID,
	})
}

func receiptFilename(assignmentID string) string {
	return fmt.Sprintf("receipts/%s.pdf", assignmentID)
}

func (s *ReceiptService) handle(ctx context.Context, job jobs.Job) error {
	assignmentID, ok := job.Payload.(string)
	if !ok || assignmentID == "" {
		s.logger.Error("receipt job carried no assignment id", zap.String("job_id", job.ID))
		return nil
	}

	detail, err := s.assignments.FindDetailByID(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("load assignment %s: %w", assignmentID, err)
	}

	lines := []export.ReceiptLine{
		{Label: "Receipt No", Value: detail.ID},
		{Label: "Date", Value: detail.CreatedAt.Format("2006-01-02")},
		{Label: "Student", Value: detail.StudentName},
		{Label: "Course", Value: detail.CourseName},
		{Label: "Facility", Value: detail.FacilityName},
		{Label: "Age Group", Value: detail.AgeGroup},
		{Label: "Session Type", Value: string(detail.SessionType)},
		{Label: "Location", Value: string(detail.LocationType)},
	}
	if detail.CouponCode != nil && detail.CouponDiscount != nil {
		lines = append(lines,
			export.ReceiptLine{Label: "Coupon", Value: *detail.CouponCode},
			export.ReceiptLine{Label: "Discount", Value: formatMinorUnits(*detail.CouponDiscount)},
		)
	}
	lines = append(lines,
		export.ReceiptLine{Label: "Total Due", Value: formatMinorUnits(detail.TotalAmountDue)},
		export.ReceiptLine{Label: "Amount Paid", Value: formatMinorUnits(detail.AmountPaid)},
		export.ReceiptLine{Label: "Payment Status", Value: string(detail.PaymentStatus)},
		export.ReceiptLine{Label: "Sessions Accessible", Value: fmt.Sprintf("%d", detail.SessionsAccessible)},
	)

	document, err := s.pdf.RenderReceipt("Enrollment Receipt", lines)
	if err != nil {
		return fmt.Errorf("render receipt %s: %w", assignmentID, err)
	}
	if _, err := s.storage.Save(receiptFilename(assignmentID), document); err != nil {
		return fmt.Errorf("store receipt %s: %w", assignmentID, err)
	}

	s.logger.Info("receipt generated", zap.String("assignment_id", assignmentID))
	return nil
}

// Link issues a signed download token for an assignment's receipt. The receipt
// may still be rendering right after finalization; callers get a conflict
// until it lands.
func (s *ReceiptService) Link(ctx context.Context, assignmentID string) (*ReceiptLink, error) {
	if _, err := s.assignments.FindDetailByID(ctx, assignmentID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	filename := receiptFilename(assignmentID)
	if !s.storage.Exists(filename) {
		if err := s.Enqueue(assignmentID); err != nil {
			s.logger.Warn("failed to schedule receipt generation",
				zap.String("assignment_id", assignmentID), zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "receipt is still being generated")
	}
	token, expiresAt, err := s.signer.Generate(assignmentID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign receipt link")
	}
	return &ReceiptLink{AssignmentID: assignmentID, Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve validates a signed token and returns the file path to serve.
func (s *ReceiptService) Resolve(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired receipt link")
	}
	if !s.storage.Exists(relPath) {
		return "", appErrors.Clone(appErrors.ErrNotFound, "receipt file not found")
	}
	return s.storage.Path(relPath), nil
}

func formatMinorUnits(amount int64) string {
	return fmt.Sprintf("%d", amount)
}
