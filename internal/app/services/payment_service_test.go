package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/paystack"
)

// memPaymentStore is an in-memory PaymentStore with the same status guard as
// the SQL implementation: only PENDING rows settle.
type memPaymentStore struct {
	payments map[string]*models.Payment
	nextID   int64
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *memPaymentStore) Create(_ context.Context, payment *models.Payment) error {
	if _, ok := s.payments[payment.Reference]; ok {
		return apperrors.NewConflictError("payment reference already exists")
	}
	s.nextID++
	payment.ID = s.nextID
	s.payments[payment.Reference] = payment
	return nil
}

func (s *memPaymentStore) GetByReference(_ context.Context, reference string) (*models.Payment, error) {
	payment, ok := s.payments[reference]
	if !ok {
		return nil, apperrors.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *memPaymentStore) MarkSettled(_ context.Context, reference string, status models.PaymentStatus, channel string, paidAt *time.Time) (bool, error) {
	payment, ok := s.payments[reference]
	if !ok {
		return false, apperrors.ErrPaymentNotFound
	}
	if payment.Status != models.PaymentPending {
		return false, nil
	}
	payment.Status = status
	payment.Channel = channel
	payment.PaidAt = paidAt
	return true, nil
}

func (s *memPaymentStore) ListByUser(_ context.Context, _ int64, _, _ int) ([]*models.Payment, int64, error) {
	return nil, 0, nil
}

func (s *memPaymentStore) ListAll(_ context.Context, _, _ int) ([]*models.Payment, int64, error) {
	return nil, 0, nil
}

// memRegistrationStore mimics the unique (user_id, course_id) upsert.
type memRegistrationStore struct {
	regs   map[[2]int64]*models.Registration
	nextID int64
}

func newMemRegistrationStore() *memRegistrationStore {
	return &memRegistrationStore{regs: make(map[[2]int64]*models.Registration)}
}

func (s *memRegistrationStore) HasRegistrationWithStatus(_ context.Context, userID, courseID int64, statuses ...models.RegistrationStatus) (bool, error) {
	reg, ok := s.regs[[2]int64{userID, courseID}]
	if !ok {
		return false, nil
	}
	for _, status := range statuses {
		if reg.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (s *memRegistrationStore) Upsert(_ context.Context, reg *models.Registration) (bool, error) {
	key := [2]int64{reg.UserID, reg.CourseID}
	if _, ok := s.regs[key]; ok {
		return false, nil
	}
	s.nextID++
	reg.ID = s.nextID
	s.regs[key] = reg
	return true, nil
}

func (s *memRegistrationStore) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Registration, error) {
	reg, ok := s.regs[[2]int64{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (s *memRegistrationStore) UpdateStatus(_ context.Context, id int64, status models.RegistrationStatus, paymentID *int64) error {
	for _, reg := range s.regs {
		if reg.ID == id {
			reg.Status = status
			if paymentID != nil {
				reg.PaymentID = paymentID
			}
			return nil
		}
	}
	return apperrors.ErrRegistrationNotFound
}

type stubCourseGetter struct{}

func (stubCourseGetter) GetByID(_ context.Context, id int64) (*models.Course, error) {
	return &models.Course{ID: id, Title: "Backend Engineering with Go", PriceKobo: 500000, Published: true}, nil
}

type stubUserGetter struct{}

func (stubUserGetter) GetByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, Email: "student@learnhub.ng", FirstName: "Ada", LastName: "Obi"}, nil
}

type stubGateway struct {
	verifyFn func(reference string) (*paystack.TransactionData, error)
}

func (s *stubGateway) Initialize(_ context.Context, req *paystack.InitializeRequest) (*paystack.InitializeData, error) {
	return &paystack.InitializeData{
		AuthorizationURL: "https://checkout.paystack.test/" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (s *stubGateway) Verify(_ context.Context, reference string) (*paystack.TransactionData, error) {
	return s.verifyFn(reference)
}

type countingEmailService struct {
	receipts  int
	approvals int
}

func (s *countingEmailService) SendRegistrationApprovedEmail(_, _, _ string) error {
	s.approvals++
	return nil
}

func (s *countingEmailService) SendPaymentReceiptEmail(_, _, _, _ string, _ int64) error {
	s.receipts++
	return nil
}

const testWebhookSecret = "sk_test_secret"

type paymentTestEnv struct {
	svc      PaymentService
	payments *memPaymentStore
	regs     *memRegistrationStore
	gateway  *stubGateway
	emails   *countingEmailService
}

func newPaymentTestEnv() *paymentTestEnv {
	env := &paymentTestEnv{
		payments: newMemPaymentStore(),
		regs:     newMemRegistrationStore(),
		gateway:  &stubGateway{},
		emails:   &countingEmailService{},
	}
	env.svc = NewPaymentService(env.payments, env.regs, stubCourseGetter{}, stubUserGetter{},
		env.gateway, env.emails, testWebhookSecret)
	return env
}

func (env *paymentTestEnv) seedPendingPayment(t *testing.T, reference string, userID, courseID int64) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		Reference:  reference,
		UserID:     userID,
		CourseID:   courseID,
		AmountKobo: 500000,
		Currency:   "NGN",
		Status:     models.PaymentPending,
	}
	require.NoError(t, env.payments.Create(context.Background(), payment))
	return payment
}

func chargeSuccessBody(reference string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"charge.success","data":{"reference":"%s","status":"success","amount":500000,"currency":"NGN","channel":"card"}}`,
		reference))
}

func TestHandleWebhookDuplicateDeliverySettlesOnce(t *testing.T) {
	env := newPaymentTestEnv()
	payment := env.seedPendingPayment(t, "lh_dup", 10, 20)

	body := chargeSuccessBody(payment.Reference)
	signature := paystack.ComputeSignature(testWebhookSecret, body)

	require.NoError(t, env.svc.HandleWebhook(context.Background(), body, signature))
	require.NoError(t, env.svc.HandleWebhook(context.Background(), body, signature))

	assert.Len(t, env.regs.regs, 1, "duplicate delivery must not create a second registration")
	reg := env.regs.regs[[2]int64{10, 20}]
	require.NotNil(t, reg)
	assert.Equal(t, models.RegistrationApproved, reg.Status)
	require.NotNil(t, reg.PaymentID)
	assert.Equal(t, payment.ID, *reg.PaymentID)

	assert.Equal(t, models.PaymentSuccess, payment.Status)
	assert.Equal(t, 1, env.emails.receipts, "receipt must be sent exactly once")
}

func TestVerifyAfterWebhookIsIdempotent(t *testing.T) {
	env := newPaymentTestEnv()
	payment := env.seedPendingPayment(t, "lh_race", 11, 21)
	env.gateway.verifyFn = func(reference string) (*paystack.TransactionData, error) {
		return &paystack.TransactionData{
			Status:    "success",
			Reference: reference,
			Channel:   "card",
		}, nil
	}

	body := chargeSuccessBody(payment.Reference)
	signature := paystack.ComputeSignature(testWebhookSecret, body)
	require.NoError(t, env.svc.HandleWebhook(context.Background(), body, signature))

	settled, reg, err := env.svc.Verify(context.Background(), payment.Reference, 11)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentSuccess, settled.Status)
	assert.Equal(t, models.RegistrationApproved, reg.Status)
	assert.Len(t, env.regs.regs, 1, "verify after webhook must reuse the registration")
	assert.Equal(t, 1, env.emails.receipts, "the later settle path must not send a second receipt")
}

func TestSettlePromotesPendingRegistration(t *testing.T) {
	env := newPaymentTestEnv()
	payment := env.seedPendingPayment(t, "lh_promote", 12, 22)

	pending := &models.Registration{UserID: 12, CourseID: 22, Status: models.RegistrationPending}
	inserted, err := env.regs.Upsert(context.Background(), pending)
	require.NoError(t, err)
	require.True(t, inserted)

	body := chargeSuccessBody(payment.Reference)
	signature := paystack.ComputeSignature(testWebhookSecret, body)
	require.NoError(t, env.svc.HandleWebhook(context.Background(), body, signature))

	assert.Len(t, env.regs.regs, 1)
	reg := env.regs.regs[[2]int64{12, 22}]
	require.NotNil(t, reg)
	assert.Equal(t, pending.ID, reg.ID, "existing application must be promoted, not replaced")
	assert.Equal(t, models.RegistrationApproved, reg.Status)
	require.NotNil(t, reg.PaymentID)
	assert.Equal(t, payment.ID, *reg.PaymentID)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	env := newPaymentTestEnv()
	payment := env.seedPendingPayment(t, "lh_badsig", 13, 23)

	body := chargeSuccessBody(payment.Reference)
	err := env.svc.HandleWebhook(context.Background(), body, "not-the-signature")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	assert.Empty(t, env.regs.regs)
	assert.Equal(t, models.PaymentPending, payment.Status)
}
