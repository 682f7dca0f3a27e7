package types

import (
	"context"

	"github.com/featureform/athenaspark/templating"
)

// Task is a unit of work a worker or CLI can run. Execute returns the task's output value.
type Task interface {
	Execute(ctx context.Context) (string, error)
	OnKill(ctx context.Context)
}

type TemplatedTask interface {
	Task
	TemplateFields() []string
	RenderTemplateFields(ctx templating.Context) error
}
