package xdm

import (
	"testing"

	"github.com/platynui/xpath2/internal/xpatherr"
)

func TestParseAtomicTimeLexicalVsRange(t *testing.T) {
	valid := []string{"00:00:00", "23:59:59", "24:00:00", "12:30:45.5", "10:00:00Z", "10:00:00+01:00"}
	for _, lex := range valid {
		if _, err := ParseAtomic(KTime, lex); err != nil {
			t.Errorf("ParseAtomic(KTime, %q) = %v, want success", lex, err)
		}
	}

	invalid := []string{"25:00:00", "23:60:00", "23:00:60", "24:00:01", "24:01:00"}
	for _, lex := range invalid {
		_, err := ParseAtomic(KTime, lex)
		if err == nil {
			t.Errorf("ParseAtomic(KTime, %q) succeeded, want FORG0001", lex)
			continue
		}
		if !xpatherr.IsCode(err, xpatherr.FORG0001) {
			t.Errorf("ParseAtomic(KTime, %q) error = %v, want code FORG0001", lex, err)
		}
	}
}

func TestParseAtomicDateTimeRequiresTimezone(t *testing.T) {
	if _, err := ParseAtomic(KDateTime, "2025-09-13T10:00:00Z"); err != nil {
		t.Errorf("ParseAtomic(KDateTime, with tz) = %v, want success", err)
	}
	if _, err := ParseAtomic(KDateTime, "2025-09-13T23:59:60Z"); err == nil {
		t.Error("ParseAtomic(KDateTime, leap-second-like lexical form) succeeded, want FORG0001")
	}

	_, err := ParseAtomic(KDateTime, "2025-09-13T10:00:00")
	if err == nil {
		t.Fatal("ParseAtomic(KDateTime, without tz) succeeded, want FORG0001")
	}
	if !xpatherr.IsCode(err, xpatherr.FORG0001) {
		t.Errorf("error = %v, want code FORG0001", err)
	}
}

func TestParseAtomicDateAllowsNoTimezone(t *testing.T) {
	if _, err := ParseAtomic(KDate, "2025-09-13"); err != nil {
		t.Errorf("ParseAtomic(KDate, without tz) = %v, want success", err)
	}
}
