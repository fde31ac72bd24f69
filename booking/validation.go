package booking

import (
	"fmt"
	"strings"
)

// ValidationError lists everything the draft is still missing. It is a
// single combined message; the confirm never partially submits.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking incomplete: missing %s", strings.Join(e.Missing, ", "))
}
