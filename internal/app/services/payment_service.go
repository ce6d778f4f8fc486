package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/email"
	"github.com/tobi/learnhub/internal/pkg/logger"
	"github.com/tobi/learnhub/internal/pkg/paystack"
)

// Narrow persistence and gateway interfaces for the payment service, satisfied
// by the concrete repositories and the Paystack client. They keep the settle
// path testable without a database.
type (
	// PaymentStore persists payment rows.
	PaymentStore interface {
		Create(ctx context.Context, payment *models.Payment) error
		GetByReference(ctx context.Context, reference string) (*models.Payment, error)
		MarkSettled(ctx context.Context, reference string, status models.PaymentStatus, channel string, paidAt *time.Time) (bool, error)
		ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.Payment, int64, error)
		ListAll(ctx context.Context, page, size int) ([]*models.Payment, int64, error)
	}

	// RegistrationStore covers the registration operations settlement needs.
	RegistrationStore interface {
		HasRegistrationWithStatus(ctx context.Context, userID, courseID int64, statuses ...models.RegistrationStatus) (bool, error)
		Upsert(ctx context.Context, reg *models.Registration) (bool, error)
		GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Registration, error)
		UpdateStatus(ctx context.Context, id int64, status models.RegistrationStatus, paymentID *int64) error
	}

	// CourseGetter loads a course by ID.
	CourseGetter interface {
		GetByID(ctx context.Context, id int64) (*models.Course, error)
	}

	// UserGetter loads a user by ID.
	UserGetter interface {
		GetByID(ctx context.Context, id int64) (*models.User, error)
	}

	// PaystackGateway is the transaction API surface of the Paystack client.
	PaystackGateway interface {
		Initialize(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializeData, error)
		Verify(ctx context.Context, reference string) (*paystack.TransactionData, error)
	}
)

// PaymentList bundles one page of payments with the total count
type PaymentList struct {
	Payments []*models.Payment
	Total    int64
}

// PaymentService defines the interface for Paystack payment operations
type PaymentService interface {
	Initialize(ctx context.Context, userID, courseID int64) (*models.Payment, *paystack.InitializeData, error)
	Verify(ctx context.Context, reference string, userID int64) (*models.Payment, *models.Registration, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ListOwn(ctx context.Context, userID int64, page, size int) (*PaymentList, error)
	ListAll(ctx context.Context, page, size int) (*PaymentList, error)
}

type paymentServiceImpl struct {
	paymentRepo      PaymentStore
	registrationRepo RegistrationStore
	courseRepo       CourseGetter
	userRepo         UserGetter
	paystackClient   PaystackGateway
	emailService     email.Service
	webhookSecret    string
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	paymentRepo PaymentStore,
	registrationRepo RegistrationStore,
	courseRepo CourseGetter,
	userRepo UserGetter,
	paystackClient PaystackGateway,
	emailService email.Service,
	webhookSecret string,
) PaymentService {
	return &paymentServiceImpl{
		paymentRepo:      paymentRepo,
		registrationRepo: registrationRepo,
		courseRepo:       courseRepo,
		userRepo:         userRepo,
		paystackClient:   paystackClient,
		emailService:     emailService,
		webhookSecret:    webhookSecret,
	}
}

// newReference generates a unique payment reference
func newReference() string {
	return "lh_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Initialize creates a PENDING payment row and starts a Paystack transaction
func (s *paymentServiceImpl) Initialize(ctx context.Context, userID, courseID int64) (*models.Payment, *paystack.InitializeData, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if !course.Published {
		return nil, nil, apperrors.ErrCourseNotPublished
	}
	if course.IsFree() {
		return nil, nil, apperrors.NewBadRequestError("course is free, apply for registration directly")
	}
	if !course.HasCapacity() {
		return nil, nil, apperrors.ErrCourseFull
	}

	taken, err := s.registrationRepo.HasRegistrationWithStatus(ctx, userID, courseID,
		models.RegistrationApproved, models.RegistrationCompleted)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, apperrors.ErrAlreadyRegistered
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	payment := &models.Payment{
		Reference:  newReference(),
		UserID:     userID,
		CourseID:   courseID,
		AmountKobo: course.PriceKobo,
		Currency:   "NGN",
		Status:     models.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	data, err := s.paystackClient.Initialize(ctx, &paystack.InitializeRequest{
		Email:      user.Email,
		AmountKobo: payment.AmountKobo,
		Reference:  payment.Reference,
		Currency:   payment.Currency,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize paystack transaction: %w", err)
	}

	logger.Info().
		Str("reference", payment.Reference).
		Int64("userID", userID).
		Int64("courseID", courseID).
		Msg("Payment initialized")

	return payment, data, nil
}

// Verify re-checks a transaction with Paystack and, on success, settles it.
// Settlement is idempotent with the webhook path.
func (s *paymentServiceImpl) Verify(ctx context.Context, reference string, userID int64) (*models.Payment, *models.Registration, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, nil, err
	}
	if payment.UserID != userID {
		return nil, nil, apperrors.ErrPermissionDenied
	}

	data, err := s.paystackClient.Verify(ctx, reference)
	if err != nil {
		return nil, nil, err
	}

	if !data.Success() {
		// A terminal failure closes the payment; anything else stays PENDING
		if data.Status == "failed" || data.Status == "abandoned" {
			if _, err := s.paymentRepo.MarkSettled(ctx, reference, models.PaymentFailed, data.Channel, nil); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, apperrors.ErrPaymentNotSuccessful
	}

	reg, err := s.settle(ctx, payment, data)
	if err != nil {
		return nil, nil, err
	}

	payment, err = s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, nil, err
	}
	return payment, reg, nil
}

// HandleWebhook processes a raw Paystack webhook delivery. The signature is
// verified against the raw body before anything is parsed. Events other than
// charge.success are acknowledged and ignored.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !paystack.VerifySignature(s.webhookSecret, body, signature) {
		return apperrors.ErrInvalidSignature
	}

	event, err := paystack.ParseWebhookEvent(body)
	if err != nil {
		return apperrors.NewBadRequestError("malformed webhook payload")
	}

	if event.Event != paystack.EventChargeSuccess {
		logger.Debug().Str("event", event.Event).Msg("Ignoring webhook event")
		return nil
	}

	data, err := event.ChargeData()
	if err != nil {
		return apperrors.NewBadRequestError("malformed webhook charge data")
	}

	payment, err := s.paymentRepo.GetByReference(ctx, data.Reference)
	if err != nil {
		// Unknown references are acknowledged so Paystack stops retrying
		logger.Warn().Str("reference", data.Reference).Msg("Webhook for unknown payment reference")
		return nil
	}

	if _, err := s.settle(ctx, payment, data); err != nil {
		return err
	}
	return nil
}

// settle marks the payment SUCCESS and guarantees an APPROVED registration
// exists, exactly once across concurrent verify and webhook calls. The
// payments.status guard makes the status flip idempotent and the unique
// (user_id, course_id) upsert makes the registration insert idempotent.
func (s *paymentServiceImpl) settle(ctx context.Context, payment *models.Payment, data *paystack.TransactionData) (*models.Registration, error) {
	paidAt := data.PaidAt
	if paidAt == nil {
		now := time.Now()
		paidAt = &now
	}

	settledNow, err := s.paymentRepo.MarkSettled(ctx, payment.Reference, models.PaymentSuccess, data.Channel, paidAt)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		UserID:    payment.UserID,
		CourseID:  payment.CourseID,
		Status:    models.RegistrationApproved,
		PaymentID: &payment.ID,
	}
	inserted, err := s.registrationRepo.Upsert(ctx, reg)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A registration already existed (e.g. a prior PENDING application);
		// promote it instead of inserting a duplicate.
		existing, err := s.registrationRepo.GetByUserAndCourse(ctx, payment.UserID, payment.CourseID)
		if err != nil {
			return nil, err
		}
		if existing.Status == models.RegistrationPending {
			if err := s.registrationRepo.UpdateStatus(ctx, existing.ID, models.RegistrationApproved, &payment.ID); err != nil {
				return nil, err
			}
			existing.Status = models.RegistrationApproved
			existing.PaymentID = &payment.ID
		}
		reg = existing
	}

	if settledNow {
		s.sendReceipt(ctx, payment)
		logger.Info().
			Str("reference", payment.Reference).
			Int64("registrationID", reg.ID).
			Msg("Payment settled")
	}

	return reg, nil
}

func (s *paymentServiceImpl) sendReceipt(ctx context.Context, payment *models.Payment) {
	user, err := s.userRepo.GetByID(ctx, payment.UserID)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", payment.UserID).Msg("Could not load user for receipt email")
		return
	}
	course, err := s.courseRepo.GetByID(ctx, payment.CourseID)
	if err != nil {
		logger.Warn().Err(err).Int64("courseID", payment.CourseID).Msg("Could not load course for receipt email")
		return
	}
	if err := s.emailService.SendPaymentReceiptEmail(user.Email, user.FullName(), course.Title, payment.Reference, payment.AmountKobo); err != nil {
		logger.Warn().Err(err).Str("reference", payment.Reference).Msg("Failed to send receipt email")
	}
}

func (s *paymentServiceImpl) ListOwn(ctx context.Context, userID int64, page, size int) (*PaymentList, error) {
	payments, total, err := s.paymentRepo.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return &PaymentList{Payments: payments, Total: total}, nil
}

func (s *paymentServiceImpl) ListAll(ctx context.Context, page, size int) (*PaymentList, error) {
	payments, total, err := s.paymentRepo.ListAll(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return &PaymentList{Payments: payments, Total: total}, nil
}
