package modbus

import "time"

// Clock abstracts wall-clock access so transport timeouts can be tested
// without sleeping. realClock is used unless a caller injects its own.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
