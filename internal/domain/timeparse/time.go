// Package timeparse turns the free text that follows a RemindMe! command
// into a concrete instant. Only a small grammar is understood: additive
// relative offsets ("1 day 2 hours") and a handful of absolute layouts.
package timeparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	appErrors "remindme/internal/pkg/errors"
)

// Fixed unit lengths. Months and years are deliberately not calendar aware.
const (
	Second = int64(1)
	Minute = 60 * Second
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Week   = 7 * Day
	Month  = 30 * Day
	Year   = 365 * Day
)

const maxYear = 9999

// ErrorKind classifies why a time expression could not be resolved.
type ErrorKind int

const (
	NoTimeFound ErrorKind = iota
	UnparseableDate
	PastDate
)

// Error is returned by Parse. It unwraps to the matching sentinel in
// internal/pkg/errors so callers can use errors.Is.
type Error struct {
	Kind   ErrorKind
	Input  string
	Target time.Time // set for PastDate
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnparseableDate:
		return fmt.Sprintf("%v: %q", appErrors.ErrUnparseableDate, e.Input)
	case PastDate:
		return fmt.Sprintf("%v: %s", appErrors.ErrPastDate, e.Target.Format(time.RFC3339))
	default:
		return appErrors.ErrNoTimeFound.Error()
	}
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case UnparseableDate:
		return appErrors.ErrUnparseableDate
	case PastDate:
		return appErrors.ErrPastDate
	default:
		return appErrors.ErrNoTimeFound
	}
}

// Result is a successfully resolved expression.
type Result struct {
	Target     time.Time
	Expression string // the matched prefix of the input
}

var (
	commandLine = regexp.MustCompile(`(?im)remindme(?:!|\b)[ \t]*(.*)$`)

	leadingIn = regexp.MustCompile(`(?i)^in\s+`)

	// <n> <unit>, optionally followed by a separator.
	relativeComponent = regexp.MustCompile(`(?i)^(\d+)\s*(` +
		`seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|hr|h|days?|d|weeks?|wks?|w|months?|mos?|years?|yrs?|y` +
		`)\b(?:\s*,\s*|\s+and\s+|\s+)?`)

	relativeWord = regexp.MustCompile(`(?i)^(tomorrow|next\s+week)\b\s*`)

	isoDateTime = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2})(?:[ T](\d{1,2}:\d{2}(?::\d{2})?))?(Z|[+-]\d{2}:\d{2})?\b\s*`)

	monthDate = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})(?:\s+(?:at\s+)?(\d{1,2}:\d{2}))?\b\s*`)

	// Clock forms the absolute layouts do not accept, such as "10:00am" or
	// "at 10pm", left over after a date match.
	unsupportedClock = regexp.MustCompile(`(?i)^(?:at\s+)?(?:\d{1,2}(?::\d{2}){0,2}\s*[ap]\.?m\.?(?:\s+|$)|\d{1,2}(?::\d{2}){1,2}\S*\s*)`)
	clockTail        = regexp.MustCompile(`(?i)^(?:[ap]\.?m\.?(?:\s+|$)|[:.]\d\S*\s*)`)
)

var unitSeconds = map[string]int64{
	"s": Second, "sec": Second, "secs": Second, "second": Second, "seconds": Second,
	"m": Minute, "min": Minute, "mins": Minute, "minute": Minute, "minutes": Minute,
	"h": Hour, "hr": Hour, "hrs": Hour, "hour": Hour, "hours": Hour,
	"d": Day, "day": Day, "days": Day,
	"w": Week, "wk": Week, "wks": Week, "week": Week, "weeks": Week,
	"mo": Month, "mos": Month, "month": Month, "months": Month,
	"y": Year, "yr": Year, "yrs": Year, "year": Year, "years": Year,
}

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// FindTimeString returns the rest of the line following the RemindMe
// keyword, trimmed. ok is false when the body has no RemindMe command.
func FindTimeString(body string) (string, bool) {
	m := commandLine.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExpressionLength returns how many bytes at the start of timeString form
// a time expression, without resolving it. Zero means none was found.
func ExpressionLength(timeString string) int {
	s := strings.TrimLeft(timeString, " \t")
	offset := len(timeString) - len(s)

	if loc := leadingIn.FindStringIndex(s); loc != nil {
		rest := s[loc[1]:]
		if n := expressionLength(rest); n > 0 {
			return offset + loc[1] + n
		}
		return 0
	}
	if n := expressionLength(s); n > 0 {
		return offset + n
	}
	return 0
}

func expressionLength(s string) int {
	if loc := isoDateTime.FindStringSubmatchIndex(s); loc != nil {
		return loc[1] + danglingClock(s[loc[1]:], loc[4] >= 0)
	}
	if loc := monthDate.FindStringSubmatchIndex(s); loc != nil {
		return loc[1] + danglingClock(s[loc[1]:], loc[8] >= 0)
	}
	total := 0
	for {
		rest := s[total:]
		if loc := relativeComponent.FindStringIndex(rest); loc != nil {
			total += loc[1]
			continue
		}
		if loc := relativeWord.FindStringIndex(rest); loc != nil {
			total += loc[1]
			continue
		}
		return total
	}
}

// danglingClock returns the length of an unsupported clock directly after a
// date match, so it becomes part of the expression and fails to parse
// instead of silently resolving to midnight.
func danglingClock(rest string, hadClock bool) int {
	re := unsupportedClock
	if hadClock {
		re = clockTail
	}
	if loc := re.FindStringIndex(rest); loc != nil {
		return loc[1]
	}
	return 0
}

// Parse resolves the leading time expression of timeString relative to now.
// now is never read from the wall clock here; the caller supplies it.
func Parse(timeString string, now time.Time) (Result, error) {
	n := ExpressionLength(timeString)
	if n == 0 {
		return Result{}, &Error{Kind: NoTimeFound, Input: timeString}
	}
	prefix := strings.TrimLeft(timeString[:n], " \t")
	expr := strings.TrimSpace(prefix)
	body := leadingIn.ReplaceAllString(prefix, "")

	var (
		target time.Time
		err    error
	)
	switch {
	case isoDateTime.MatchString(body):
		target, err = parseISO(body)
	case monthDate.MatchString(body):
		target, err = parseMonthDate(body)
	default:
		target, err = addRelative(body, now)
	}
	if err != nil {
		return Result{}, &Error{Kind: UnparseableDate, Input: expr}
	}
	if target.Year() > maxYear {
		return Result{}, &Error{Kind: UnparseableDate, Input: expr}
	}
	if !target.After(now) {
		return Result{}, &Error{Kind: PastDate, Input: expr, Target: target}
	}
	return Result{Target: target, Expression: expr}, nil
}

func addRelative(s string, now time.Time) (time.Time, error) {
	var total int64
	for s != "" {
		if m := relativeComponent.FindStringSubmatch(s); m != nil {
			count, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return time.Time{}, err
			}
			unit := unitSeconds[strings.ToLower(m[2])]
			if count > (math.MaxInt64-total)/unit {
				return time.Time{}, fmt.Errorf("offset overflows: %s", m[0])
			}
			total += count * unit
			s = s[len(m[0]):]
			continue
		}
		if m := relativeWord.FindStringSubmatch(s); m != nil {
			if strings.EqualFold(m[1], "tomorrow") {
				total += Day
			} else {
				total += Week
			}
			s = s[len(m[0]):]
			continue
		}
		return time.Time{}, fmt.Errorf("unexpected text %q", s)
	}
	// Stay well inside int64 Unix seconds before building the instant.
	if total > int64(maxYear+1)*Year {
		return time.Time{}, fmt.Errorf("offset too large")
	}
	return time.Unix(now.Unix()+total, int64(now.Nanosecond())).In(now.Location()), nil
}

func parseISO(s string) (time.Time, error) {
	m := isoDateTime.FindStringSubmatch(s)
	if rest := strings.TrimSpace(s[len(m[0]):]); rest != "" {
		return time.Time{}, fmt.Errorf("unsupported clock %q", rest)
	}
	datePart, clockPart, zonePart := m[1], m[2], m[3]

	value := datePart
	layout := "2006-1-2"
	if clockPart != "" {
		value += " " + clockPart
		if strings.Count(clockPart, ":") == 2 {
			layout += " 15:04:05"
		} else {
			layout += " 15:04"
		}
	}
	if zonePart != "" {
		value += zonePart
		layout += "Z07:00"
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseMonthDate(s string) (time.Time, error) {
	m := monthDate.FindStringSubmatch(s)
	if rest := strings.TrimSpace(s[len(m[0]):]); rest != "" {
		return time.Time{}, fmt.Errorf("unsupported clock %q", rest)
	}
	month := monthNumbers[strings.ToLower(m[1])]
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, minute := 0, 0
	if m[4] != "" {
		clock, err := time.Parse("15:04", m[4])
		if err != nil {
			return time.Time{}, err
		}
		hour, minute = clock.Hour(), clock.Minute()
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	// time.Date normalises overflow (Feb 30 -> Mar 2); reject instead.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("no such day: %s", s)
	}
	return t, nil
}
