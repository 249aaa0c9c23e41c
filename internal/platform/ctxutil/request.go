package ctxutil

import "context"

type requestMetaKey struct{}

// RequestMeta identifies one inbound request across logs and traces.
type RequestMeta struct {
	RequestID string
	TraceID   string
	ClientIP  string
}

func WithRequestMeta(ctx context.Context, m *RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, m)
}

func GetRequestMeta(ctx context.Context) *RequestMeta {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(requestMetaKey{}).(*RequestMeta)
	return m
}

// LogFields returns request_id, trace_id and user_id pairs for whatever is
// present on ctx, ready to pass to logger calls.
func LogFields(ctx context.Context) []interface{} {
	var out []interface{}
	if m := GetRequestMeta(ctx); m != nil {
		if m.RequestID != "" {
			out = append(out, "request_id", m.RequestID)
		}
		if m.TraceID != "" {
			out = append(out, "trace_id", m.TraceID)
		}
	}
	if uid := UserID(ctx); uid != "" {
		out = append(out, "user_id", uid)
	}
	return out
}
