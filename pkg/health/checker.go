// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a whole readiness run.
const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of a single health check.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker is implemented by each dependency that readiness depends on.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (f CheckerFunc) Name() string { return f.CheckName }

func (f CheckerFunc) Check(ctx context.Context) Result {
	if err := f.Fn(ctx); err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}
	return Result{Status: StatusUp}
}
