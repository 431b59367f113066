package engine

import (
	"time"

	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
)

// Stats summarises one execution pass.
type Stats struct {
	ToolID       string
	Duration     time.Duration
	Instances    int
	Connections  int
	Delivered    int
	Skipped      map[resolver.SkipReason]int
	UnknownTypes int
	// Err is nil on success.
	Err error
}

// Observer receives Stats after every Execute call, successful or not.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveExecution(stats Stats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stats Stats)

// ObserveExecution calls f.
func (f ObserverFunc) ObserveExecution(stats Stats) {
	f(stats)
}

type nopObserver struct{}

func (nopObserver) ObserveExecution(Stats) {}
