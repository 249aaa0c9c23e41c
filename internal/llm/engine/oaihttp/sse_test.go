package oaihttp

import (
	"strings"
	"testing"
)

func TestStreamSSEDeliversTrailingEventWithoutBlankLine(t *testing.T) {
	var got []string
	err := streamSSE(strings.NewReader("event: a\ndata: one\ndata: two\n\ndata: last"), func(ev, data string) error {
		got = append(got, ev+"="+data)
		return nil
	})
	if err != nil {
		t.Fatalf("streamSSE: %v", err)
	}
	if len(got) != 2 || got[0] != "a=one\ntwo" || got[1] != "=last" {
		t.Fatalf("events=%q", got)
	}
}
