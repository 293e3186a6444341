package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries the correlation ids of one API request. BatchID is set
// once a request is known to act on a pending import.
type TraceData struct {
	TraceID   string
	RequestID string
	BatchID   string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// SetBatchID records the import batch on the request's trace data so the
// access log line can name it. No-op outside an API request.
func SetBatchID(ctx context.Context, batchID string) {
	if td := GetTraceData(ctx); td != nil {
		td.BatchID = batchID
	}
}

// LogFields returns the non-empty correlation ids as logger key/value pairs.
func (td *TraceData) LogFields() []interface{} {
	if td == nil {
		return nil
	}
	var out []interface{}
	if td.RequestID != "" {
		out = append(out, "request_id", td.RequestID)
	}
	if td.TraceID != "" {
		out = append(out, "trace_id", td.TraceID)
	}
	if td.BatchID != "" {
		out = append(out, "batch_id", td.BatchID)
	}
	return out
}
