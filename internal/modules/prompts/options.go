package prompts

import (
	"math"
	"strconv"
	"strings"
)

// Options is the free-form options bag sent by the client. Values of the
// wrong type are ignored rather than rejected.
type Options map[string]any

func (o Options) String(key string) (string, bool) {
	if o == nil {
		return "", false
	}
	s, ok := o[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func (o Options) Number(key string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	var f float64
	switch v := o[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
