package dispatch

import "time"

// periodRange turns a relative period phrase into a half-open [from, to)
// interval. An empty or unknown period means today.
func periodRange(period string, now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "yesterday":
		return day.AddDate(0, 0, -1), day
	case "this week":
		start := startOfWeek(day)
		return start, start.AddDate(0, 0, 7)
	case "last week":
		start := startOfWeek(day).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 7)
	case "this month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case "last month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return start, start.AddDate(0, 1, 0)
	case "this year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	case "last year":
		start := time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default: // today
		return day, day.AddDate(0, 0, 1)
	}
}

// startOfWeek returns the Monday on or before day.
func startOfWeek(day time.Time) time.Time {
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week that started last Monday
	}
	return day.AddDate(0, 0, 1-wd)
}

// periodLabel renders a period for messages.
func periodLabel(period string) string {
	if period == "" {
		return "today"
	}
	return period
}
