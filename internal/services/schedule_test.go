package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/edubox-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/llm/engine/mock"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
)

func scheduleInput() prompts.ScheduleInput {
	return prompts.ScheduleInput{
		Schedule:      json.RawMessage(`[{"course":"BIO 101","day":"Mon","start":"09:00"}]`),
		Assignments:   json.RawMessage(`[{"title":"Lab report","due":"2026-10-20"}]`),
		Events:        json.RawMessage(`[]`),
		Tasks:         json.RawMessage(`[]`),
		StudySessions: json.RawMessage(`[]`),
	}
}

func TestOptimizeParsesFencedObject(t *testing.T) {
	eng := mock.New()
	eng.Reply = "Sure!\n```json\n{\"scheduleItems\":[{\"title\":\"Lab report\",\"day\":\"Tue\"}],\"notes\":[\"Start early\",\"Rest Sunday\"]}\n```"
	sink := &recordingSink{}
	svc := NewScheduleService(testutil.Logger(t), staticRouter(eng), sink).(*scheduleService)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 8, 30, 0, 0, time.FixedZone("EST", -5*3600)) }

	res, err := svc.Optimize(authed("u1"), scheduleInput())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !res.Optimized || len(res.ScheduleItems) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.OptimizationDate != "2026-10-15T13:30:00Z" {
		t.Fatalf("optimizationDate=%q", res.OptimizationDate)
	}
	if res.Notes != "Start early\nRest Sunday" {
		t.Fatalf("notes=%q", res.Notes)
	}
	user := eng.Calls()[0].Messages[1].Content
	if !strings.Contains(user, "BIO 101") || !strings.Contains(user, "Lab report") {
		t.Fatalf("prompt missing input: %s", user)
	}
	recs := sink.Records()
	if len(recs) != 1 || recs[0].ContentType != types.ContentTypeScheduleOptimize {
		t.Fatalf("expected one schedule record, got %+v", recs)
	}
}

func TestOptimizeUnparseableReplyFails(t *testing.T) {
	eng := mock.New()
	eng.Reply = "I cannot help with that."
	sink := &recordingSink{}
	svc := NewScheduleService(testutil.Logger(t), staticRouter(eng), sink)

	_, err := svc.Optimize(context.Background(), scheduleInput())
	if got := statusOf(t, err); got != http.StatusInternalServerError {
		t.Fatalf("status=%d", got)
	}
	if len(sink.Records()) != 0 {
		t.Fatalf("failed optimization must not persist")
	}
}
