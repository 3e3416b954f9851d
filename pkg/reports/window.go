// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reports

import (
	"time"

	"github.com/canonical/inventory-service/internal/types"
)

const dateLayout = "2006-01-02"

// Window is the half open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ParseWindow reads the start and end query values. Plain dates cover the
// whole end day, RFC3339 timestamps are used as they are.
func ParseWindow(start, end string) (Window, error) {
	verr := new(types.ValidationError)

	s, err := parseBound(start, false)
	if err != nil {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "start", Message: err.Error()})
	}

	e, err := parseBound(end, true)
	if err != nil {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "end", Message: err.Error()})
	}

	if len(verr.Fields) == 0 && !e.After(s) {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "end", Message: "must be after start"})
	}

	if len(verr.Fields) > 0 {
		return Window{}, verr
	}

	return Window{Start: s, End: e}, nil
}

type boundError string

func (e boundError) Error() string { return string(e) }

func parseBound(value string, end bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, boundError("is required")
	}

	if t, err := time.Parse(dateLayout, value); err == nil {
		if end {
			return t.Add(24 * time.Hour), nil
		}
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, boundError("must be YYYY-MM-DD or RFC3339")
	}

	return t, nil
}
