package xdm

import "fmt"

func formatTZ(tz TZOffset) string {
	if !tz.Present {
		return ""
	}
	if tz.Minutes == 0 {
		return "Z"
	}
	sign := "+"
	m := tz.Minutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

func formatDate(d DateValue) string {
	y := d.Year
	sign := ""
	if y < 0 {
		sign = "-"
		y = -y
	}
	return fmt.Sprintf("%s%04d-%02d-%02d%s", sign, y, d.Month, d.Day, formatTZ(d.TZ))
}

func formatSeconds(sec float64) string {
	whole := int64(sec)
	frac := sec - float64(whole)
	if frac == 0 {
		return fmt.Sprintf("%02d", whole)
	}
	s := fmt.Sprintf("%09.6f", sec)
	s = trimTrailingZeros(s)
	if len(s) == 2 {
		s = "0" + s
	}
	return s
}

func formatTime(t TimeValue) string {
	return fmt.Sprintf("%02d:%02d:%s%s", t.Hour, t.Minute, formatSeconds(t.Second), formatTZ(t.TZ))
}

func formatDateTime(dt DateTimeValue) string {
	date := formatDate(DateValue{Year: dt.Year, Month: dt.Month, Day: dt.Day})
	return fmt.Sprintf("%sT%02d:%02d:%s%s", date, dt.Hour, dt.Minute, formatSeconds(dt.Second), formatTZ(dt.TZ))
}

func formatDayTimeDuration(seconds int64) string {
	sign := ""
	s := seconds
	if s < 0 {
		sign = "-"
		s = -s
	}
	days := s / 86400
	s -= days * 86400
	hours := s / 3600
	s -= hours * 3600
	minutes := s / 60
	s -= minutes * 60
	secs := s

	out := sign + "P"
	if days > 0 {
		out += fmt.Sprintf("%dD", days)
	}
	if hours > 0 || minutes > 0 || secs > 0 || days == 0 {
		out += "T"
		if hours > 0 {
			out += fmt.Sprintf("%dH", hours)
		}
		if minutes > 0 {
			out += fmt.Sprintf("%dM", minutes)
		}
		if secs > 0 || (days == 0 && hours == 0 && minutes == 0) {
			out += fmt.Sprintf("%dS", secs)
		}
	}
	return out
}

func formatYearMonthDuration(months int64) string {
	sign := ""
	m := months
	if m < 0 {
		sign = "-"
		m = -m
	}
	years := m / 12
	rem := m % 12
	out := sign + "P"
	if years > 0 {
		out += fmt.Sprintf("%dY", years)
	}
	if rem > 0 || years == 0 {
		out += fmt.Sprintf("%dM", rem)
	}
	return out
}
