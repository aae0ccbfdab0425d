package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// BookingRepository reads bookings straight from the booking backend's
// Postgres tables when the service runs next to a read replica.
type BookingRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// querier is the subset of *pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PGBookingRepository struct {
	db  querier
	loc *time.Location
}

func NewBookingRepository(db querier, loc *time.Location) BookingRepository {
	if loc == nil {
		loc = time.Local
	}
	return &PGBookingRepository{db: db, loc: loc}
}

const bookingColumns = `id, status, start_at, end_at,
	total_value, calculated_price, payment_details,
	deposit_type, deposit_value, deposit_amount, tax_rate, tax_type, balance,
	customer_name, customer_email, customer_tier,
	resource, purpose, guests, assigned_to, booking_source, quotation_id,
	priority, risk_level, tags, created_at`

func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE hall_owner_id=$1 ORDER BY start_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: query bookings: %v", domain.ErrUpstream, err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows, r.loc)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read bookings: %v", domain.ErrUpstream, err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`, status.Wire(), id)
	if err != nil {
		return fmt.Errorf("%w: update status: %v", domain.ErrUpstream, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row, loc *time.Location) (domain.Booking, error) {
	var (
		b                                             domain.Booking
		status                                        string
		start, end, created                           *time.Time
		totalValue, calculatedPrice                   *float64
		depositValue, depositAmount, taxRate, balance *float64
		paymentDetails                                []byte
		depositType, taxType                          *string
		customerName, customerEmail, customerTier     *string
		resource, purpose, assignedTo, bookingSource  *string
		quotationID, priority, riskLevel              *string
		guests                                        *int32
	)
	if err := row.Scan(
		&b.ID, &status, &start, &end,
		&totalValue, &calculatedPrice, &paymentDetails,
		&depositType, &depositValue, &depositAmount, &taxRate, &taxType, &balance,
		&customerName, &customerEmail, &customerTier,
		&resource, &purpose, &guests, &assignedTo, &bookingSource, &quotationID,
		&priority, &riskLevel, &b.Tags, &created,
	); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: scan booking: %v", domain.ErrUpstream, err)
	}

	b.Status = domain.ParseStatus(status)
	b.Start = inLoc(start, loc)
	b.End = inLoc(end, loc)
	b.CreatedAt = inLoc(created, loc)

	b.TotalValue = domain.AmountFromPtr(totalValue)
	b.CalculatedPrice = domain.AmountFromPtr(calculatedPrice)
	b.DepositValue = domain.AmountFromPtr(depositValue)
	b.DepositAmount = domain.AmountFromPtr(depositAmount)
	b.TaxRate = domain.AmountFromPtr(taxRate)
	b.Balance = domain.AmountFromPtr(balance)
	if len(paymentDetails) > 0 && string(paymentDetails) != "null" {
		var pd domain.PaymentDetails
		if err := json.Unmarshal(paymentDetails, &pd); err != nil {
			return domain.Booking{}, fmt.Errorf("%w: payment_details of %s: %v", domain.ErrUpstream, b.ID, err)
		}
		b.PaymentDetails = &pd
	}

	b.DepositType = domain.DepositType(str(depositType))
	b.TaxType = str(taxType)
	b.Customer = domain.Customer{Name: str(customerName), Email: str(customerEmail), Tier: str(customerTier)}
	b.Resource = str(resource)
	b.Purpose = str(purpose)
	if guests != nil {
		b.Guests = int(*guests)
	}
	b.AssignedTo = str(assignedTo)
	b.BookingSource = str(bookingSource)
	b.QuotationID = str(quotationID)
	b.Priority = str(priority)
	b.RiskLevel = str(riskLevel)
	return b, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func inLoc(t *time.Time, loc *time.Location) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.In(loc)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
