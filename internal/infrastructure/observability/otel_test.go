package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bizlink/directory-backend/internal/infrastructure/observability"
)

// Metrics are optional collaborators; recording against a nil handle is a no-op.
func TestRecordHelpers_NilMetricsIsNoOp(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		observability.RecordRequestMetric(ctx, nil, "GET", "/api/businesses", 200, 5*time.Millisecond)
		observability.RecordCacheHit(ctx, nil, "business")
		observability.RecordCacheMiss(ctx, nil, "business")
		observability.RecordImportRows(ctx, nil, "created", 3)
	})
}
