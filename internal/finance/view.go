package finance

import (
	"github.com/shopspring/decimal"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// PaymentView is what the dashboard renders in the payment column and the
// booking detail panel.
type PaymentView struct {
	Pending        bool             `json:"pending"`
	BasePrice      decimal.Decimal  `json:"basePrice"`
	Breakdown      *DerivedPayment  `json:"breakdown,omitempty"`
	DepositType    string           `json:"depositType,omitempty"`
	DepositPercent *decimal.Decimal `json:"depositPercent,omitempty"`
}

// Present builds the payment view. Pending bookings show only the base price:
// tax and deposit figures are not final until the booking is confirmed, even
// when the backend already sent a payment summary.
func (d *Deriver) Present(b domain.Booking) PaymentView {
	view := PaymentView{
		Pending:   b.Status.IsPending(),
		BasePrice: firstOf(&b, baseSources...),
	}
	if view.Pending {
		return view
	}

	derived := d.Derive(b)
	view.Breakdown = &derived
	if b.DepositType != "" {
		view.DepositType = string(b.DepositType)
	}
	if b.DepositType == domain.DepositPercentage {
		pct := DepositPercent(b, derived)
		view.DepositPercent = &pct
	}
	return view
}

func Present(b domain.Booking) PaymentView {
	return standard.Present(b)
}
