package rollup

import "time"

// MonthNames and DayNames are the fixed English bucket labels used in
// the report. Days are Monday-first.
var (
	MonthNames = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	DayNames = [7]string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
		"Saturday", "Sunday",
	}
)

// TimeAnalytics is the time-bucketed histogram block of the report.
//
// The busiest-* fields are nil for an empty year. Exact ties resolve
// to the earliest bucket in calendar order (January before December,
// Monday before Sunday, hour 0 before 23); this is a documented policy
// choice, not inherited behavior.
type TimeAnalytics struct {
	RunsPerMonth      [12]int        `json:"runs_per_month"` // index 0 = January
	BusiestMonth      *string        `json:"busiest_month"`
	BusiestMonthCount int            `json:"busiest_month_count"`
	BusiestDay        *string        `json:"busiest_day"`
	BusiestDayCount   int            `json:"busiest_day_count"`
	BusiestHour       *int           `json:"busiest_hour"`
	BusiestHourCount  int            `json:"busiest_hour_count"`
	FirstRun          *time.Time     `json:"first_run"`
	LastRun           *time.Time     `json:"last_run"`
	WeekendRuns       int            `json:"weekend_runs"`
	WeekdayRuns       int            `json:"weekday_runs"`
	DayDistribution   map[string]int `json:"day_distribution"`
}

func buildTimeAnalytics(total int, months [12]int, weekdays [7]int, hours [24]int, first, last time.Time) TimeAnalytics {
	ta := TimeAnalytics{
		RunsPerMonth:    months,
		DayDistribution: make(map[string]int, 7),
	}
	for i, name := range DayNames {
		ta.DayDistribution[name] = weekdays[i]
	}

	if total == 0 {
		return ta
	}

	mi, mc := argmax(months[:])
	name := MonthNames[mi]
	ta.BusiestMonth = &name
	ta.BusiestMonthCount = mc

	di, dc := argmax(weekdays[:])
	day := DayNames[di]
	ta.BusiestDay = &day
	ta.BusiestDayCount = dc

	hi, hc := argmax(hours[:])
	ta.BusiestHour = &hi
	ta.BusiestHourCount = hc

	ta.FirstRun = &first
	ta.LastRun = &last

	// Monday-first layout puts Saturday and Sunday at indexes 5 and 6.
	ta.WeekendRuns = weekdays[5] + weekdays[6]
	ta.WeekdayRuns = total - ta.WeekendRuns

	return ta
}

// argmax returns the first index holding the maximum value, so exact
// ties resolve to the earliest calendar bucket.
func argmax(counts []int) (int, int) {
	best, bestCount := 0, counts[0]
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	return best, bestCount
}
