package orchestrators

import (
	"time"

	"github.com/google/uuid"
)

// newID returns gen() when set, a random UUID otherwise.
func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.New().String()
}

// nowFrom returns clock() when set, the wall clock otherwise.
func nowFrom(clock func() time.Time) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now()
}
