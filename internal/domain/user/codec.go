package user

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

// ParseCreated reads the client supplied creation timestamp. Anything cast
// understands as a time is accepted, offsets are kept until storage.
func ParseCreated(s string) (time.Time, error) {
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("created: %w", err)
	}

	return t, nil
}

// FormatCreated renders a stored timestamp for the API. Midnight UTC renders
// as a bare date so date-only input comes back unchanged.
func FormatCreated(t time.Time) string {
	t = t.UTC()

	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(dateLayout)
	}

	return t.Format(time.RFC3339Nano)
}

// CoerceStatus reads an untyped stored status. nil means missing or unreadable.
func CoerceStatus(v any) *bool {
	if v == nil {
		return nil
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil
	}

	return &b
}
