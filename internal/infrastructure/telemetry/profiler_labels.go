package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelOperation = "operation"
	ProfilingLabelTenantID  = "tenant_id"
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
)

// Operations that are worth slicing profiles by
const (
	OperationRenderInvoicePDF = "render_invoice_pdf"
	OperationRevenueReport    = "revenue_report"
)

// maxLabelValueLength keeps label values from blowing up profile storage
const maxLabelValueLength = 128

// highCardinalityLabels are never attached to profiles
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"order_id":   true,
	"invoice_id": true,
	"trace_id":   true,
}

// OperationLabels builds the label set for a tenant scoped operation
func OperationLabels(operation, tenantID string) map[string]string {
	labels := map[string]string{ProfilingLabelOperation: operation}
	if tenantID != "" {
		labels[ProfilingLabelTenantID] = tenantID
	}
	return labels
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU profiles
// sent to Pyroscope can be filtered by them. Without a running profiler the
// labels only cost a context allocation.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels drops empty and high cardinality labels, truncates long
// values and returns key/value pairs in key order
func sanitizeLabels(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || strings.TrimSpace(v) == "" || highCardinalityLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
