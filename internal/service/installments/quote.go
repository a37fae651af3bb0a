// Package installments computes flat-rate installment plans for financed sales.
package installments

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MaxMonths is the longest supported contract term.
const MaxMonths = 120

var (
	ErrInvalidPrice            = errors.New("price must be positive")
	ErrInvalidTerm             = errors.New("term must be between 1 and 120 months")
	ErrInvalidRate             = errors.New("interest rate must not be negative")
	ErrInvalidDownPayment      = errors.New("down payment must not be negative")
	ErrDownPaymentExceedsPrice = errors.New("down payment exceeds price")
	ErrNothingToFinance        = errors.New("down payment covers the full price")
)

var twelve = decimal.NewFromInt(12)

// Request describes the sale being financed. InterestRate is the flat annual
// rate applied to the financed amount, e.g. 0.15 for 15%.
type Request struct {
	Price        decimal.Decimal `json:"price"`
	DownPayment  decimal.Decimal `json:"down_payment"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Months       int             `json:"months"`
	StartDate    time.Time       `json:"start_date"`
}

// Installment is one scheduled payment.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

// Quote is the computed plan.
type Quote struct {
	Price          decimal.Decimal `json:"price"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	Financed       decimal.Decimal `json:"financed"`
	Interest       decimal.Decimal `json:"interest"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Months         int             `json:"months"`
	Schedule       []Installment   `json:"schedule"`
}

func (r Request) validate() error {
	switch {
	case !r.Price.IsPositive():
		return ErrInvalidPrice
	case r.Months < 1 || r.Months > MaxMonths:
		return ErrInvalidTerm
	case r.InterestRate.IsNegative():
		return ErrInvalidRate
	case r.DownPayment.IsNegative():
		return ErrInvalidDownPayment
	case r.DownPayment.GreaterThan(r.Price):
		return ErrDownPaymentExceedsPrice
	case r.DownPayment.Equal(r.Price):
		return ErrNothingToFinance
	}
	return nil
}

// Calculate builds the plan. Interest is financed × rate × months/12. Regular
// payments are rounded down to the satang and the last one absorbs the rest,
// so the schedule always sums to TotalPayable.
func Calculate(r Request) (Quote, error) {
	if err := r.validate(); err != nil {
		return Quote{}, err
	}

	months := decimal.NewFromInt(int64(r.Months))
	financed := r.Price.Sub(r.DownPayment)
	interest := financed.Mul(r.InterestRate).Mul(months).Div(twelve).Round(2)
	total := financed.Add(interest)
	monthly := total.Div(months).RoundFloor(2)

	start := r.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	schedule := make([]Installment, 0, r.Months)
	balance := total
	for i := 1; i <= r.Months; i++ {
		amount := monthly
		if i == r.Months {
			amount = balance
		}
		balance = balance.Sub(amount)
		schedule = append(schedule, Installment{
			Number:  i,
			DueDate: addMonths(start, i),
			Amount:  amount,
			Balance: balance,
		})
	}

	return Quote{
		Price:          r.Price,
		DownPayment:    r.DownPayment,
		Financed:       financed,
		Interest:       interest,
		TotalPayable:   total,
		MonthlyPayment: monthly,
		Months:         r.Months,
		Schedule:       schedule,
	}, nil
}

// addMonths moves t forward n calendar months, clamping to the month's last day.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}
