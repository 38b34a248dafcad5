package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LabelAllExcluding searches every folder except promotions, trash and spam
	LabelAllExcluding = "All (excluding Trash/Spam/Promotions)"
	// LabelAllIncluding searches every folder
	LabelAllIncluding = "All (including everything)"

	// DateLayout is the layout used for user-supplied dates
	DateLayout = "2006-01-02"

	queryDateLayout = "2006/01/02"
)

// Labels is the fixed set of label choices offered to the user
var Labels = []string{
	LabelAllExcluding,
	LabelAllIncluding,
	"INBOX",
	"IMPORTANT",
	"SENT",
	"CATEGORY_PERSONAL",
	"CATEGORY_UPDATES",
}

// BuildQuery translates a filter into the provider's search syntax.
// The before: bound is exclusive, so the end date is advanced by one day.
func BuildQuery(spec FilterSpec) string {
	var b strings.Builder
	b.WriteString("after:")
	b.WriteString(spec.Start.Format(queryDateLayout))
	b.WriteString(" before:")
	b.WriteString(spec.End.AddDate(0, 0, 1).Format(queryDateLayout))

	switch spec.Label {
	case LabelAllExcluding:
		b.WriteString(" -category:promotions -in:trash -in:spam")
	case LabelAllIncluding:
	default:
		b.WriteString(" label:")
		b.WriteString(spec.Label)
	}

	return b.String()
}

// ParseFilterSpec builds a FilterSpec from YYYY-MM-DD dates and a label
func ParseFilterSpec(start, end, label string) (FilterSpec, error) {
	startDate, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return FilterSpec{}, fmt.Errorf("%w: start date %q: %v", ErrInvalidFilter, start, err)
	}
	endDate, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return FilterSpec{}, fmt.Errorf("%w: end date %q: %v", ErrInvalidFilter, end, err)
	}
	if endDate.Before(startDate) {
		return FilterSpec{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidFilter, end, start)
	}
	if label == "" {
		label = LabelAllExcluding
	}

	return FilterSpec{Start: startDate, End: endDate, Label: label}, nil
}

// InRange reports whether t falls on a calendar day within [Start, End]
// when observed in loc.
func (f FilterSpec) InRange(t time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	day := civilDate(t.In(loc))
	return !day.Before(civilDate(f.Start)) && !day.After(civilDate(f.End))
}

// civilDate strips the clock and zone from t
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
