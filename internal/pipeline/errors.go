package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy reports an unrecognized missing-value strategy. It is
// returned before any aggregation work starts.
var ErrUnknownStrategy = errors.New("missing-value strategy must be one of: drop, ffill, state_median")

// MissingColumnsError reports every required column absent from a raw export
// header, so one failed run surfaces the complete schema mismatch.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	var b strings.Builder
	b.WriteString("missing required columns in raw CSV:\n")
	for _, c := range e.Columns {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	return strings.TrimRight(b.String(), "\n")
}
