package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/dberrors"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const paymentColumns = "id, reference, user_id, course_id, amount_kobo, currency, status, channel, paid_at, created_at, updated_at"

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	var channel *string
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.UserID,
		&p.CourseID,
		&p.AmountKobo,
		&p.Currency,
		&p.Status,
		&channel,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if channel != nil {
		p.Channel = *channel
	}
	return p, nil
}

// Create inserts a pending payment with its unique reference
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	sql, args, err := r.sb.Insert("payments").
		Columns("reference", "user_id", "course_id", "amount_kobo", "currency", "status").
		Values(payment.Reference, payment.UserID, payment.CourseID,
			payment.AmountKobo, payment.Currency, payment.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create payment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("payment reference already exists")
		}
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

// GetByReference retrieves a payment by its Paystack reference
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns).
		From("payments").
		Where(squirrel.Eq{"reference": reference}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting payment by reference: %w", err)
	}
	return payment, nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting payment by ID: %w", err)
	}
	return payment, nil
}

// MarkSettled moves a PENDING payment to its final status, recording the
// channel and paid time. Only PENDING rows are updated, so replayed webhook
// deliveries and verify/webhook races settle a payment exactly once; the
// return value reports whether this call did the settling.
func (r *PaymentRepository) MarkSettled(ctx context.Context, reference string, status models.PaymentStatus, channel string, paidAt *time.Time) (bool, error) {
	sql, args, err := r.sb.Update("payments").
		Set("status", status).
		Set("channel", channel).
		Set("paid_at", paidAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"reference": reference, "status": models.PaymentPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build settle payment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error settling payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a page of a user's payments with course titles
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.Payment, int64, error) {
	return r.list(ctx, &userID, page, size)
}

// ListAll returns a page of every payment, for admins
func (r *PaymentRepository) ListAll(ctx context.Context, page, size int) ([]*models.Payment, int64, error) {
	return r.list(ctx, nil, page, size)
}

func (r *PaymentRepository) list(ctx context.Context, userID *int64, page, size int) ([]*models.Payment, int64, error) {
	countQuery := r.sb.Select("COUNT(*)").From("payments")
	listQuery := r.sb.Select(
		"p.id", "p.reference", "p.user_id", "p.course_id", "p.amount_kobo",
		"p.currency", "p.status", "p.channel", "p.paid_at", "p.created_at", "p.updated_at",
		"c.id", "c.title", "c.slug",
	).
		From("payments p").
		Join("courses c ON c.id = p.course_id")

	if userID != nil {
		countQuery = countQuery.Where(squirrel.Eq{"user_id": *userID})
		listQuery = listQuery.Where(squirrel.Eq{"p.user_id": *userID})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count payments query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting payments: %w", err)
	}

	offset, limit := calculateOffsetLimit(page, size)
	sql, args, err = listQuery.
		OrderBy("p.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list payments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{Course: &models.Course{}}
		var channel *string
		err := rows.Scan(
			&p.ID, &p.Reference, &p.UserID, &p.CourseID, &p.AmountKobo,
			&p.Currency, &p.Status, &channel, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
			&p.Course.ID, &p.Course.Title, &p.Course.Slug,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning payment row: %w", err)
		}
		if channel != nil {
			p.Channel = *channel
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, total, nil
}
