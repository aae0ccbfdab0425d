package finance

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func TestDeriveFinancials_FallsBackToTotalValue(t *testing.T) {
	b := domain.Booking{ID: "BKG-001", Status: domain.StatusConfirmed, TotalValue: domain.NewAmount(1100)}

	d := DeriveFinancials(b)

	assert.Equal(t, "1100.00", money(d.TotalInclGST))
	assert.Equal(t, "10.00", money(d.GSTPercent))
	assert.Equal(t, "100.00", money(d.TaxAmount))
	assert.Equal(t, "1000.00", money(d.Subtotal))
	assert.True(t, d.DepositAmount.IsZero())
	assert.False(t, d.DepositPaid)
	assert.Equal(t, "1100.00", money(d.FinalDue))
	assert.True(t, d.PaidRatio.IsZero())
	assert.Equal(t, TaxInclusive, d.TaxType)
}

func TestDeriveFinancials_PaymentDetailsAreAuthoritative(t *testing.T) {
	b := domain.Booking{
		ID:              "BKG-002",
		Status:          domain.StatusConfirmed,
		TotalValue:      domain.NewAmount(999),
		CalculatedPrice: domain.NewAmount(950),
		DepositAmount:   domain.NewAmount(50),
		PaymentDetails: &domain.PaymentDetails{
			TotalAmount: domain.NewAmount(1100),
			Tax: &domain.Tax{
				Rate:   domain.NewAmount(10),
				Amount: domain.NewAmount(100),
			},
			DepositAmount: domain.NewAmount(300),
			DepositPaid:   true,
			FinalDue:      domain.NewAmount(800),
		},
	}

	d := DeriveFinancials(b)

	assert.True(t, d.TotalInclGST.Equal(decimal.NewFromInt(1100)))
	assert.True(t, d.GSTPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, d.TaxAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, d.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, d.DepositAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, d.DepositPaid)
	assert.True(t, d.FinalDue.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "0.2727", d.PaidRatio.StringFixed(4))
}

func TestDeriveFinancials_ExclusiveTax(t *testing.T) {
	b := domain.Booking{TotalValue: domain.NewAmount(1000), TaxType: "Exclusive"}

	d := DeriveFinancials(b)

	assert.Equal(t, TaxExclusive, d.TaxType)
	assert.True(t, d.IsExclusive())
	assert.Equal(t, "1000.00", money(d.Subtotal))
	assert.Equal(t, "90.91", money(d.TaxAmount))
}

func TestDeriveFinancials_TaxTypeIsCaseInsensitive(t *testing.T) {
	b := domain.Booking{
		TotalValue:     domain.NewAmount(500),
		TaxType:        "Inclusive",
		PaymentDetails: &domain.PaymentDetails{Tax: &domain.Tax{Type: "EXCLUSIVE"}},
	}
	assert.Equal(t, TaxExclusive, DeriveFinancials(b).TaxType)
}

func TestDeriveFinancials_GSTDerivedFromTaxAmount(t *testing.T) {
	b := domain.Booking{
		PaymentDetails: &domain.PaymentDetails{
			TotalAmount: domain.NewAmount(1150),
			Tax:         &domain.Tax{Amount: domain.NewAmount(150)},
		},
	}

	d := DeriveFinancials(b)

	assert.Equal(t, "15", d.GSTPercent.String())
	assert.Equal(t, "150.00", money(d.TaxAmount))
	assert.Equal(t, "1000.00", money(d.Subtotal))
}

func TestDeriveFinancials_GSTDerivationSkipsNonPositiveDenominator(t *testing.T) {
	b := domain.Booking{
		PaymentDetails: &domain.PaymentDetails{
			TotalAmount: domain.NewAmount(100),
			Tax:         &domain.Tax{Amount: domain.NewAmount(100)},
		},
	}

	d := DeriveFinancials(b)

	assert.Equal(t, "10", d.GSTPercent.String())
	assert.Equal(t, "0.00", money(d.Subtotal))
}

func TestDeriveFinancials_SourcePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		booking   domain.Booking
		wantTotal string
		wantDep   string
	}{
		{
			name:      "calculated price beats total value",
			booking:   domain.Booking{CalculatedPrice: domain.NewAmount(800), TotalValue: domain.NewAmount(900)},
			wantTotal: "800.00",
			wantDep:   "0.00",
		},
		{
			name: "payment total beats calculated price",
			booking: domain.Booking{
				CalculatedPrice: domain.NewAmount(800),
				PaymentDetails:  &domain.PaymentDetails{TotalAmount: domain.NewAmount(880)},
			},
			wantTotal: "880.00",
			wantDep:   "0.00",
		},
		{
			name: "legacy deposit used when summary has none",
			booking: domain.Booking{
				TotalValue:     domain.NewAmount(400),
				DepositAmount:  domain.NewAmount(100),
				PaymentDetails: &domain.PaymentDetails{},
			},
			wantTotal: "400.00",
			wantDep:   "100.00",
		},
		{
			name:      "nothing present",
			booking:   domain.Booking{},
			wantTotal: "0.00",
			wantDep:   "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DeriveFinancials(tt.booking)
			assert.Equal(t, tt.wantTotal, money(d.TotalInclGST))
			assert.Equal(t, tt.wantDep, money(d.DepositAmount))
		})
	}
}

func TestDeriveFinancials_FinalDueAndRatioBounds(t *testing.T) {
	over := domain.Booking{TotalValue: domain.NewAmount(200), DepositAmount: domain.NewAmount(500)}
	d := DeriveFinancials(over)
	assert.True(t, d.FinalDue.IsZero())
	assert.True(t, d.PaidRatio.Equal(decimal.NewFromInt(1)))

	negative := domain.Booking{TotalValue: domain.NewAmount(200), DepositAmount: domain.NewAmount(-50)}
	assert.True(t, DeriveFinancials(negative).PaidRatio.IsZero())

	empty := DeriveFinancials(domain.Booking{DepositAmount: domain.NewAmount(50)})
	assert.True(t, empty.PaidRatio.IsZero())
	assert.True(t, empty.FinalDue.IsZero())
}

func TestDeriveFinancials_DoesNotMutateBooking(t *testing.T) {
	b := domain.Booking{
		TotalValue:     domain.NewAmount(1100),
		PaymentDetails: &domain.PaymentDetails{Tax: &domain.Tax{Amount: domain.NewAmount(100)}},
	}
	before, err := json.Marshal(b)
	require.NoError(t, err)

	_ = DeriveFinancials(b)

	after, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestNewDeriver_CustomDefaultGST(t *testing.T) {
	d := NewDeriver(15).Derive(domain.Booking{TotalValue: domain.NewAmount(1150)})
	assert.Equal(t, "15", d.GSTPercent.String())
	assert.Equal(t, "1000.00", money(d.Subtotal))
}

func TestDepositPercent(t *testing.T) {
	withValue := domain.Booking{DepositValue: domain.NewAmount(25)}
	assert.Equal(t, "25", DepositPercent(withValue, DerivedPayment{}).String())

	b := domain.Booking{TotalValue: domain.NewAmount(1200), DepositAmount: domain.NewAmount(300)}
	assert.Equal(t, "25", DepositPercent(b, DeriveFinancials(b)).String())

	zeroTotal := domain.Booking{DepositAmount: domain.NewAmount(3)}
	assert.Equal(t, "300", DepositPercent(zeroTotal, DeriveFinancials(zeroTotal)).String())
}
