package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

// Keys containing any of these are dropped. Uploaded documents arrive as
// base64 and would otherwise flood the log.
var redactKeyParts = []string{
	"authorization", "token", "secret", "password", "cookie",
	"api_key", "apikey", "email",
	"file_data", "pdf_data", "pdf_text", "base64",
}

// Keys containing any of these are replaced by a salted hash so one caller's
// requests can still be correlated.
var hashKeyParts = []string{"user_id", "client_ip"}

type redactor struct {
	enabled bool
	salt    string
}

var (
	redactorOnce sync.Once
	redactorInst *redactor
)

// defaultRedactor reads LOG_REDACTION_ENABLED and LOG_HASH_SALT once.
func defaultRedactor() *redactor {
	redactorOnce.Do(func() {
		r := &redactor{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			r.enabled = false
		}
		redactorInst = r
	})
	return redactorInst
}

func (r *redactor) apply(kv []interface{}) []interface{} {
	if !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := stringify(kv[i])
		out = append(out, key, r.value(strings.ToLower(key), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (r *redactor) value(key string, v interface{}) interface{} {
	switch {
	case key != "" && containsAny(key, redactKeyParts):
		return redacted
	case key != "" && containsAny(key, hashKeyParts):
		return r.hash(v)
	}
	switch t := v.(type) {
	case string:
		if looksLikeJWT(t) {
			return redacted
		}
		return t
	case map[string]interface{}:
		if t == nil {
			return t
		}
		m := make(map[string]interface{}, len(t))
		for k, inner := range t {
			m[k] = r.value(strings.ToLower(k), inner)
		}
		return m
	case []interface{}:
		if t == nil {
			return t
		}
		s := make([]interface{}, len(t))
		for i, inner := range t {
			s[i] = r.value("", inner)
		}
		return s
	default:
		return v
	}
}

func (r *redactor) hash(v interface{}) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:6])
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
