package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleItem is one monthly obligation of an installment schedule.
type ScheduleItem struct {
	MonthYear string // "YYYY-MM"
	Amount    decimal.Decimal
}

// Schedule splits total into months equal obligations of
// round(total/months, 2), starting at start and advancing one calendar
// month per item. The rounding remainder is absorbed into the final item so
// the schedule always sums exactly to total (100/3 -> 33.33, 33.33, 33.34).
func Schedule(total decimal.Decimal, months int, start time.Time) []ScheduleItem {
	if months <= 0 {
		return nil
	}

	monthly := total.Div(decimal.NewFromInt(int64(months))).Round(2)

	items := make([]ScheduleItem, 0, months)
	period := start
	for i := 0; i < months; i++ {
		amount := monthly
		if i == months-1 {
			amount = total.Sub(monthly.Mul(decimal.NewFromInt(int64(months - 1))))
		}
		items = append(items, ScheduleItem{
			MonthYear: period.Format("2006-01"),
			Amount:    amount,
		})
		period = period.AddDate(0, 1, 0)
	}

	return items
}
