package async

import (
	"context"
	"time"
)

// Job is the smallest useful unit: one document to extract. Extend as needed
// later (priority, trace, retry).
type Job struct {
	DocURI      string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
