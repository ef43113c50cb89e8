package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("x", 300)
	pairs := sanitizeLabels(map[string]string{
		"operation":  "render_invoice_pdf",
		"tenant_id":  long,
		"request_id": "abc",
		"route":      " ",
	})

	assert.Equal(t, []string{"operation", "render_invoice_pdf", "tenant_id", long[:maxLabelValueLength]}, pairs)
}

func TestWithProfilingLabels_RunsFn(t *testing.T) {
	ran := false
	WithProfilingLabels(context.Background(), OperationLabels(OperationRevenueReport, "t1"), func(context.Context) {
		ran = true
	})
	assert.True(t, ran)

	ran = false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}
