package finance

import (
	"github.com/shopspring/decimal"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// source yields a figure when the booking carries it.
type source func(b *domain.Booking) (decimal.Decimal, bool)

var (
	totalSources   = []source{paymentTotal, calculatedPrice, totalValue}
	depositSources = []source{paymentDeposit, legacyDeposit}
	baseSources    = []source{calculatedPrice, totalValue}
)

func firstOf(b *domain.Booking, sources ...source) decimal.Decimal {
	for _, src := range sources {
		if v, ok := src(b); ok {
			return v
		}
	}
	return decimal.Zero
}

func paymentTotal(b *domain.Booking) (decimal.Decimal, bool) {
	if b.PaymentDetails == nil {
		return decimal.Zero, false
	}
	return b.PaymentDetails.TotalAmount.Decimal()
}

func calculatedPrice(b *domain.Booking) (decimal.Decimal, bool) {
	return b.CalculatedPrice.Decimal()
}

func totalValue(b *domain.Booking) (decimal.Decimal, bool) {
	return b.TotalValue.Decimal()
}

func paymentTaxRate(b *domain.Booking) (decimal.Decimal, bool) {
	if b.PaymentDetails == nil || b.PaymentDetails.Tax == nil {
		return decimal.Zero, false
	}
	return b.PaymentDetails.Tax.Rate.Decimal()
}

func paymentTaxAmount(b *domain.Booking) (decimal.Decimal, bool) {
	if b.PaymentDetails == nil || b.PaymentDetails.Tax == nil {
		return decimal.Zero, false
	}
	return b.PaymentDetails.Tax.Amount.Decimal()
}

func paymentDeposit(b *domain.Booking) (decimal.Decimal, bool) {
	if b.PaymentDetails == nil {
		return decimal.Zero, false
	}
	return b.PaymentDetails.DepositAmount.Decimal()
}

func legacyDeposit(b *domain.Booking) (decimal.Decimal, bool) {
	return b.DepositAmount.Decimal()
}

func paymentFinalDue(b *domain.Booking) (decimal.Decimal, bool) {
	if b.PaymentDetails == nil {
		return decimal.Zero, false
	}
	return b.PaymentDetails.FinalDue.Decimal()
}
