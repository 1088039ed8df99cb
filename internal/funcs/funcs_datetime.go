package funcs

import (
	"math/big"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func registerDateTimeFuncs(b *Builder) {
	b.fn("current-dateTime", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return xdm.NewSequence(xdm.NewDateTime(nowDateTime(dc))), nil
	})
	b.fn("current-date", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		dt := nowDateTime(dc)
		return xdm.NewSequence(xdm.NewDate(xdm.DateValue{Year: dt.Year, Month: dt.Month, Day: dt.Day, TZ: dt.TZ})), nil
	})
	b.fn("current-time", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		dt := nowDateTime(dc)
		return xdm.NewSequence(xdm.NewTime(xdm.TimeValue{Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second, TZ: dt.TZ})), nil
	})
	b.fn("implicit-timezone", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		_, tz := dc.Now()
		return xdm.NewSequence(xdm.NewDayTimeDuration(int64(tz) * 60)), nil
	})
	b.fn("dateTime", 2, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		da, ok, err := singleAtomic(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		ta, ok, err := singleAtomic(args[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if da.Kind != xdm.KDate {
			return nil, xpatherr.New(xpatherr.XPTY0004, "fn:dateTime() first argument must be an xs:date")
		}
		if ta.Kind != xdm.KTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "fn:dateTime() second argument must be an xs:time")
		}
		d := da.DateVal()
		t := ta.TimeVal()
		tz := d.TZ
		if d.TZ.Present && t.TZ.Present && d.TZ.Minutes != t.TZ.Minutes {
			return nil, xpatherr.New(xpatherr.FORG0001, "fn:dateTime() date and time have conflicting timezones")
		}
		if !tz.Present {
			tz = t.TZ
		}
		return xdm.NewSequence(xdm.NewDateTime(xdm.DateTimeValue{
			Year: d.Year, Month: d.Month, Day: d.Day,
			Hour: t.Hour, Minute: t.Minute, Second: t.Second,
			TZ: tz,
		})), nil
	})

	b.fn("year-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewInteger(int64(dt.Year)) }))
	b.fn("month-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewInteger(int64(dt.Month)) }))
	b.fn("day-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewInteger(int64(dt.Day)) }))
	b.fn("hours-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewInteger(int64(dt.Hour)) }))
	b.fn("minutes-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewInteger(int64(dt.Minute)) }))
	b.fn("seconds-from-dateTime", 1, 1, dtField(func(dt xdm.DateTimeValue) xdm.Atomic { return xdm.NewDecimal(floatToRat(dt.Second)) }))
	b.fn("timezone-from-dateTime", 1, 1, dtTZField(func(dt xdm.DateTimeValue) xdm.TZOffset { return dt.TZ }))

	b.fn("year-from-date", 1, 1, dateField(func(d xdm.DateValue) xdm.Atomic { return xdm.NewInteger(int64(d.Year)) }))
	b.fn("month-from-date", 1, 1, dateField(func(d xdm.DateValue) xdm.Atomic { return xdm.NewInteger(int64(d.Month)) }))
	b.fn("day-from-date", 1, 1, dateField(func(d xdm.DateValue) xdm.Atomic { return xdm.NewInteger(int64(d.Day)) }))
	b.fn("timezone-from-date", 1, 1, dateTZField(func(d xdm.DateValue) xdm.TZOffset { return d.TZ }))

	b.fn("hours-from-time", 1, 1, timeField(func(t xdm.TimeValue) xdm.Atomic { return xdm.NewInteger(int64(t.Hour)) }))
	b.fn("minutes-from-time", 1, 1, timeField(func(t xdm.TimeValue) xdm.Atomic { return xdm.NewInteger(int64(t.Minute)) }))
	b.fn("seconds-from-time", 1, 1, timeField(func(t xdm.TimeValue) xdm.Atomic { return xdm.NewDecimal(floatToRat(t.Second)) }))
	b.fn("timezone-from-time", 1, 1, timeTZField(func(t xdm.TimeValue) xdm.TZOffset { return t.TZ }))

	b.fn("years-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger(d.Months / 12) }))
	b.fn("months-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger(d.Months % 12) }))
	b.fn("days-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger(d.Seconds / 86400) }))
	b.fn("hours-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger((d.Seconds % 86400) / 3600) }))
	b.fn("minutes-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger((d.Seconds % 3600) / 60) }))
	b.fn("seconds-from-duration", 1, 1, durField(func(d xdm.Duration) xdm.Atomic { return xdm.NewInteger(d.Seconds % 60) }))

	b.fn("adjust-dateTime-to-timezone", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDateTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:dateTime")
		}
		tz, err := adjustTZArg(dc, args, 1)
		if err != nil {
			return nil, err
		}
		dt := a.DateTimeVal()
		dt.TZ = tz
		return xdm.NewSequence(xdm.NewDateTime(dt)), nil
	})
	b.fn("adjust-date-to-timezone", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDate {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:date")
		}
		tz, err := adjustTZArg(dc, args, 1)
		if err != nil {
			return nil, err
		}
		d := a.DateVal()
		d.TZ = tz
		return xdm.NewSequence(xdm.NewDate(d)), nil
	})
	b.fn("adjust-time-to-timezone", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:time")
		}
		tz, err := adjustTZArg(dc, args, 1)
		if err != nil {
			return nil, err
		}
		t := a.TimeVal()
		t.TZ = tz
		return xdm.NewSequence(xdm.NewTime(t)), nil
	})
}

func nowDateTime(dc *dynctx.DynamicContext) xdm.DateTimeValue {
	now, tz := dc.Now()
	return xdm.DateTimeValue{
		Year: now.Year(), Month: int(now.Month()), Day: now.Day(),
		Hour: now.Hour(), Minute: now.Minute(),
		Second: float64(now.Second()) + float64(now.Nanosecond())/1e9,
		TZ:     xdm.TZOffset{Minutes: tz, Present: true},
	}
}

func floatToRat(f float64) *big.Rat {
	return new(big.Rat).SetFloat64(f)
}

func dtField(f func(xdm.DateTimeValue) xdm.Atomic) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDateTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:dateTime")
		}
		return xdm.NewSequence(f(a.DateTimeVal())), nil
	}
}

func dtTZField(f func(xdm.DateTimeValue) xdm.TZOffset) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDateTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:dateTime")
		}
		return tzResult(f(a.DateTimeVal())), nil
	}
}

func dateField(f func(xdm.DateValue) xdm.Atomic) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDate {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:date")
		}
		return xdm.NewSequence(f(a.DateVal())), nil
	}
}

func dateTZField(f func(xdm.DateValue) xdm.TZOffset) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDate {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:date")
		}
		return tzResult(f(a.DateVal())), nil
	}
}

func timeField(f func(xdm.TimeValue) xdm.Atomic) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:time")
		}
		return xdm.NewSequence(f(a.TimeVal())), nil
	}
}

func timeTZField(f func(xdm.TimeValue) xdm.TZOffset) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KTime {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected an xs:time")
		}
		return tzResult(f(a.TimeVal())), nil
	}
}

func durField(f func(xdm.Duration) xdm.Atomic) dynctx.Callable {
	return func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if a.Kind != xdm.KDayTimeDuration && a.Kind != xdm.KYearMonthDuration {
			return nil, xpatherr.New(xpatherr.XPTY0004, "expected a duration")
		}
		return xdm.NewSequence(f(a.DurationVal())), nil
	}
}

func tzResult(tz xdm.TZOffset) xdm.Sequence {
	if !tz.Present {
		return nil
	}
	return xdm.NewSequence(xdm.NewDayTimeDuration(int64(tz.Minutes) * 60))
}

func adjustTZArg(dc *dynctx.DynamicContext, args []xdm.Sequence, i int) (xdm.TZOffset, error) {
	if i >= len(args) || len(args[i]) == 0 {
		_, tz := dc.Now()
		return xdm.TZOffset{Minutes: tz, Present: true}, nil
	}
	a, ok, err := singleAtomic(args[i])
	if err != nil || !ok {
		return xdm.TZOffset{}, err
	}
	if a.Kind != xdm.KDayTimeDuration {
		return xdm.TZOffset{}, xpatherr.New(xpatherr.XPTY0004, "timezone argument must be an xs:dayTimeDuration")
	}
	secs := a.DurationVal().Seconds
	return xdm.TZOffset{Minutes: int(secs / 60), Present: true}, nil
}
