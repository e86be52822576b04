package wellness

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimezone = errors.New("timezone must be a valid IANA name")

// LoadLocation resolves an IANA zone name. Empty and "Local" are rejected
// because they do not name a zone the client can share.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}
