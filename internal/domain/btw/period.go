package btw

import (
	"fmt"
	"time"

	"github.com/zzptax/zzptax/internal/domain"
)

// Period is a quarterly BTW filing period.
type Period struct {
	Year    int       `json:"year"`
	Quarter int       `json:"quarter"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	DueDate time.Time `json:"due_date"`
}

// Label returns the period name as used on the return, e.g. "2024-Q3".
func (p Period) Label() string {
	return fmt.Sprintf("%d-Q%d", p.Year, p.Quarter)
}

// QuarterPeriod returns the filing period for a quarter. The return and the
// payment are due on the last day of the month after the quarter ends.
func QuarterPeriod(year, quarter int) (Period, error) {
	if quarter < 1 || quarter > 4 {
		return Period{}, &domain.ValidationError{Field: "quarter", Reason: fmt.Sprintf("%d is not between 1 and 4", quarter)}
	}
	if year < 1 {
		return Period{}, &domain.ValidationError{Field: "year", Reason: fmt.Sprintf("%d is not a valid year", year)}
	}

	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	nextQuarter := start.AddDate(0, 3, 0)
	return Period{
		Year:    year,
		Quarter: quarter,
		Start:   start,
		End:     nextQuarter.AddDate(0, 0, -1),
		DueDate: nextQuarter.AddDate(0, 1, -1),
	}, nil
}

// PeriodFor returns the quarter containing t.
func PeriodFor(t time.Time) Period {
	p, _ := QuarterPeriod(t.Year(), (int(t.Month())-1)/3+1)
	return p
}
