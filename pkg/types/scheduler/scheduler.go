package scheduler

import "time"

type Scheduler interface {
	Start() error
	Stop()
}

const (
	// MinInterval keeps auto refresh from hammering public quote APIs.
	MinInterval = 10 * time.Second
)
