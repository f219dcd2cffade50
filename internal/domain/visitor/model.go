package visitor

import (
	"errors"
	"time"
)

// Visitor is an anonymous check-in by someone not on the roster.
type Visitor struct {
	ID        string
	Date      string // YYYY-MM-DD
	CreatedAt time.Time
}

// Validate checks if the Visitor has valid data.
func (v *Visitor) Validate() error {
	if _, err := time.Parse("2006-01-02", v.Date); err != nil {
		return errors.New("날짜는 YYYY-MM-DD 형식이어야 합니다.")
	}
	return nil
}
