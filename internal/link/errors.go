package link

import (
	"errors"
	"fmt"
)

// ErrInvalidFrequency is returned when a path is constructed with a non-positive frequency.
var ErrInvalidFrequency = errors.New("frequency must be greater than zero")

// DegeneratePathError is returned when both sites resolve to the same point and the
// path therefore has zero length. It is fatal for the whole analysis of that path.
type DegeneratePathError struct {
	SiteA string
	SiteB string
}

func (e *DegeneratePathError) Error() string {
	return fmt.Sprintf("degenerate path %s: sites %s and %s resolve to the same point", pathID(e.SiteA, e.SiteB), e.SiteA, e.SiteB)
}

func pathID(a, b string) string {
	return a + "-" + b
}
