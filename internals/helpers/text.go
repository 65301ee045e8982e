package helper

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// CleanText trims and NFC-normalises user input, so visually identical
// Japanese text compares equal no matter which IME produced it.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CleanOptional is CleanText with blank mapped to nil.
func CleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := CleanText(*s)
	if v == "" {
		return nil
	}
	return &v
}

func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return datatypes.Date(t), nil
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// Today is the current calendar day as a UTC midnight, comparable with DATE columns.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func StrPtr(s string) *string { return &s }

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
