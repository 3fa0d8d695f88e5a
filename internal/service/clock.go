package service

import "time"

// Clock supplies timestamps for createdAt/updatedAt. Tests pass a fixed or
// stepping clock to make ordering deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = systemClock{}
