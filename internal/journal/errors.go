package journal

import (
	"errors"
	"fmt"
	"strings"
)

// SkipError reports that a unit of work was skipped because one or more of
// its required source row-sets was empty. It is a clean no-op, not a failure:
// nothing was written, and the batch should continue with the next unit.
type SkipError struct {
	Unit    string
	Missing []string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip %s: %s data is empty", e.Unit, strings.Join(e.Missing, ", "))
}

// IsSkip reports whether err (or anything it wraps) is a SkipError.
func IsSkip(err error) bool {
	var se *SkipError
	return errors.As(err, &se)
}
