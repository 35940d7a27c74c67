package services

import "time"

// Clock supplies the current instant. Services take one at construction so
// tests can pin time instead of racing the wall clock.
type Clock func() time.Time

// UTCNow is the production clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}
