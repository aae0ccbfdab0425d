package domain

import "time"

type DepositType string

const (
	DepositFixed      DepositType = "Fixed"
	DepositPercentage DepositType = "Percentage"
	DepositNone       DepositType = "None"
)

type Customer struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Tier           string `json:"tier"`
	BookingHistory int    `json:"bookingHistory"`
	TotalSpent     Amount `json:"totalSpent"`
}

// Tax is the tax block of a backend-confirmed payment summary.
type Tax struct {
	Rate   Amount `json:"tax_rate"`
	Amount Amount `json:"tax_amount"`
	Type   string `json:"tax_type,omitempty"`
}

// PaymentDetails is the authoritative payment summary confirmed by the booking
// backend. When present its figures win over every legacy field on Booking.
type PaymentDetails struct {
	TotalAmount   Amount `json:"total_amount"`
	Tax           *Tax   `json:"tax,omitempty"`
	DepositAmount Amount `json:"deposit_amount"`
	DepositPaid   Flag   `json:"deposit_paid"`
	FinalDue      Amount `json:"final_due"`
}

// Booking is a read-only snapshot of a hall booking as served by the booking API.
type Booking struct {
	ID     string    `json:"id"`
	Status Status    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`

	TotalValue      Amount          `json:"totalValue"`
	CalculatedPrice Amount          `json:"calculatedPrice"`
	PaymentDetails  *PaymentDetails `json:"payment_details,omitempty"`

	DepositType   DepositType `json:"depositType,omitempty"`
	DepositValue  Amount      `json:"depositValue"`
	DepositAmount Amount      `json:"depositAmount"`
	TaxRate       Amount      `json:"taxRate"`
	TaxType       string      `json:"taxType,omitempty"`
	Balance       Amount      `json:"balance"`

	Customer      Customer  `json:"customer"`
	Resource      string    `json:"resource"`
	Purpose       string    `json:"purpose"`
	Guests        int       `json:"guests"`
	AssignedTo    string    `json:"assignedTo,omitempty"`
	BookingSource string    `json:"bookingSource,omitempty"`
	QuotationID   string    `json:"quotationId,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	RiskLevel     string    `json:"riskLevel,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CombineDateClock joins a calendar date ("2006-01-02") and a time of day
// ("15:04" or "15:04:05") into a wall-clock instant in loc.
func CombineDateClock(date time.Time, clock string, loc *time.Location) (time.Time, bool) {
	if date.IsZero() {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	h, m, s := 0, 0, 0
	if clock != "" {
		var t time.Time
		var err error
		if len(clock) > len("15:04") {
			t, err = time.Parse("15:04:05", clock)
		} else {
			t, err = time.Parse("15:04", clock)
		}
		if err != nil {
			return time.Time{}, false
		}
		h, m, s = t.Hour(), t.Minute(), t.Second()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, loc), true
}
