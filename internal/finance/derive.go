package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

type TaxType string

const (
	TaxInclusive TaxType = "Inclusive"
	TaxExclusive TaxType = "Exclusive"
)

const DefaultGSTPercent = 10

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	half    = decimal.NewFromFloat(0.5)
)

// DerivedPayment is the payment breakdown shown for a booking. It is computed
// on every read and never written back to the booking.
type DerivedPayment struct {
	TotalInclGST  decimal.Decimal `json:"totalInclGst"`
	GSTPercent    decimal.Decimal `json:"gstPercent"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TaxType       TaxType         `json:"taxType"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	DepositPaid   bool            `json:"depositPaid"`
	FinalDue      decimal.Decimal `json:"finalDue"`
	PaidRatio     decimal.Decimal `json:"paidRatio"`
}

func (d DerivedPayment) IsExclusive() bool {
	return d.TaxType == TaxExclusive
}

// Deriver computes DerivedPayment values. The zero value is not usable; build
// one with NewDeriver.
type Deriver struct {
	defaultGST decimal.Decimal
}

func NewDeriver(defaultGSTPercent float64) *Deriver {
	return &Deriver{defaultGST: decimal.NewFromFloat(defaultGSTPercent)}
}

var standard = NewDeriver(DefaultGSTPercent)

// DeriveFinancials derives the payment breakdown with the default 10% GST.
func DeriveFinancials(b domain.Booking) DerivedPayment {
	return standard.Derive(b)
}

// Derive walks each field's sources in order and takes the first one that is
// present. A booking without any usable figures derives to zero amounts at the
// default GST rate.
func (d *Deriver) Derive(b domain.Booking) DerivedPayment {
	total := firstOf(&b, totalSources...)

	explicitTax, hasExplicitTax := paymentTaxAmount(&b)
	gst := d.gstPercent(&b, total)

	out := DerivedPayment{
		TotalInclGST: total,
		GSTPercent:   gst,
		TaxType:      resolveTaxType(&b),
	}

	switch {
	case hasExplicitTax:
		out.TaxAmount = explicitTax
		out.Subtotal = total.Sub(explicitTax)
	case out.TaxType == TaxExclusive:
		out.TaxAmount = total.Sub(backOutTax(total, gst))
		out.Subtotal = total
	default:
		net := backOutTax(total, gst)
		out.TaxAmount = total.Sub(net)
		out.Subtotal = net
	}

	out.DepositAmount = firstOf(&b, depositSources...)
	if b.PaymentDetails != nil {
		out.DepositPaid = bool(b.PaymentDetails.DepositPaid)
	}

	if due, ok := paymentFinalDue(&b); ok {
		out.FinalDue = due
	} else {
		out.FinalDue = decimal.Max(decimal.Zero, total.Sub(out.DepositAmount))
	}

	if total.IsPositive() {
		out.PaidRatio = clamp(out.DepositAmount.Div(total), decimal.Zero, one)
	} else {
		out.PaidRatio = decimal.Zero
	}
	return out
}

func (d *Deriver) gstPercent(b *domain.Booking, total decimal.Decimal) decimal.Decimal {
	if rate, ok := paymentTaxRate(b); ok {
		return rate
	}
	if taxAmount, ok := paymentTaxAmount(b); ok {
		if denom := total.Sub(taxAmount); denom.IsPositive() {
			return jsRound(taxAmount.Div(denom).Mul(hundred))
		}
	}
	return d.defaultGST
}

// DepositPercent is the deposit expressed as a percentage of the total, used
// when the deposit type is Percentage.
func DepositPercent(b domain.Booking, d DerivedPayment) decimal.Decimal {
	if v, ok := b.DepositValue.Decimal(); ok {
		return v
	}
	base := d.TotalInclGST
	if base.IsZero() {
		base = one
	}
	return jsRound(d.DepositAmount.Div(base).Mul(hundred))
}

func resolveTaxType(b *domain.Booking) TaxType {
	raw := ""
	if pd := b.PaymentDetails; pd != nil && pd.Tax != nil && pd.Tax.Type != "" {
		raw = pd.Tax.Type
	} else if b.TaxType != "" {
		raw = b.TaxType
	}
	if strings.EqualFold(strings.TrimSpace(raw), string(TaxExclusive)) {
		return TaxExclusive
	}
	return TaxInclusive
}

// backOutTax treats total as tax-inclusive and returns the net amount.
func backOutTax(total, gstPercent decimal.Decimal) decimal.Decimal {
	divisor := one.Add(gstPercent.Div(hundred))
	if divisor.IsZero() {
		return total
	}
	return total.Div(divisor)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}

// jsRound rounds half toward positive infinity.
func jsRound(v decimal.Decimal) decimal.Decimal {
	return v.Add(half).Floor()
}
