package envutil

import (
	"testing"
	"time"
)

func TestMillis(t *testing.T) {
	t.Setenv("EDUBOX_TEST_TTL_MS", "1500")
	if got := Millis("EDUBOX_TEST_TTL_MS", time.Minute); got != 1500*time.Millisecond {
		t.Fatalf("Millis=%v want 1.5s", got)
	}
	t.Setenv("EDUBOX_TEST_TTL_MS", "nope")
	if got := Millis("EDUBOX_TEST_TTL_MS", time.Minute); got != time.Minute {
		t.Fatalf("Millis=%v want default", got)
	}
}

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("EDUBOX_TEST_TIMEOUT", "45")
	if got := Duration("EDUBOX_TEST_TIMEOUT", time.Second); got != 45*time.Second {
		t.Fatalf("Duration=%v want 45s", got)
	}
	t.Setenv("EDUBOX_TEST_TIMEOUT", "250ms")
	if got := Duration("EDUBOX_TEST_TIMEOUT", time.Second); got != 250*time.Millisecond {
		t.Fatalf("Duration=%v want 250ms", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("EDUBOX_TEST_FLAG", "off")
	if Bool("EDUBOX_TEST_FLAG", true) {
		t.Fatalf("Bool(off) should be false")
	}
	t.Setenv("EDUBOX_TEST_FLAG", "maybe")
	if !Bool("EDUBOX_TEST_FLAG", true) {
		t.Fatalf("Bool(garbage) should fall back to default")
	}
}
