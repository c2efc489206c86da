package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilObservability_IsNoOp(t *testing.T) {
	var o *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		o.RecordActionProcessed(ctx, "approve-new", "success")
		o.RecordActionDuration(ctx, "approve-new", 15*time.Millisecond, "success")
		o.Shutdown()
	})
	assert.NotNil(t, o.Tracer("test"))
}

func TestNew_RecordsAndShutsDown(t *testing.T) {
	o := New("market-admin-test")
	defer o.Shutdown()

	ctx, span := o.Tracer("test").Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NotPanics(t, func() {
		o.RecordActionProcessed(ctx, "reject-new", "failure")
		o.RecordActionDuration(ctx, "reject-new", time.Second, "failure")
	})
}
