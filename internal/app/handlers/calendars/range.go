package calendars

import (
	"time"

	"staykit/internal/domain/shared/daterange"
)

func singleDay(date time.Time) daterange.DateRange {
	day := daterange.Day(date)
	return daterange.DateRange{CheckIn: day, CheckOut: day.AddDate(0, 0, 1)}
}
