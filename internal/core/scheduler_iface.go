package core

import "time"

// Scheduler runs work on the event loop. Post enqueues fn; AfterFunc
// enqueues fn once d has elapsed and returns a stop func.
type Scheduler interface {
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}
