package stage

import (
	"context"

	"shelver/internal/records"
)

// Handler describes the contract the scheduler needs from each pipeline stage.
type Handler interface {
	Execute(context.Context, *records.FileRecord) error
	HealthCheck(context.Context) Health
}
