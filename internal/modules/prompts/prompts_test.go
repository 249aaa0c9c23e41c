package prompts

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildContentAppliesOptions(t *testing.T) {
	p := Build("essay", Options{
		"wordCount":  float64(500),
		"tone":       "persuasive",
		"userPrompt": "cite two sources",
		"title":      "My Essay",
	}, "climate change")

	for _, want := range []string{
		"climate change",
		"Aim for approximately 500 words.",
		"Use a persuasive tone.",
		"Additional instructions:\ncite two sources",
	} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
	if p.Title != "My Essay" {
		t.Fatalf("title=%q want My Essay", p.Title)
	}
	if !strings.Contains(p.System, "essay") {
		t.Fatalf("system prompt should mention content type: %q", p.System)
	}
}

func TestBuildIgnoresWrongTypedOptions(t *testing.T) {
	p := Build("summary", Options{
		"wordCount": "five hundred",
		"tone":      42,
		"title":     []any{"x"},
	}, "topic")

	if strings.Contains(p.User, "Aim for approximately") {
		t.Fatalf("non-number wordCount should be ignored:\n%s", p.User)
	}
	if strings.Contains(p.User, "tone") {
		t.Fatalf("non-string tone should be ignored:\n%s", p.User)
	}
	if p.Title != "Summary" {
		t.Fatalf("title=%q want label default", p.Title)
	}
}

func TestBuildDefaultsTitleToLabel(t *testing.T) {
	cases := map[string]string{
		"":               "Generated Content",
		"notes":          "Study Notes",
		"lab_report":     "Lab Report",
		"study_plan":     "Study Plan",
		"flashcards":     "Flashcards",
		"research-brief": "Research Brief",
	}
	for ct, want := range cases {
		if got := Build(ct, nil, "x").Title; got != want {
			t.Fatalf("Build(%q).Title=%q want %q", ct, got, want)
		}
	}
}

func TestLabelKeepsNonASCIIValid(t *testing.T) {
	cases := map[string]string{
		"élève_notes": "Élève Notes",
		"übung":       "Übung",
		"ñandú-facts": "Ñandú Facts",
		"\xffbad_tag": "Bad Tag",
		"résumé tips": "Résumé Tips",
	}
	for ct, want := range cases {
		got := Label(ct)
		if !utf8.ValidString(got) {
			t.Fatalf("Label(%q)=%q is not valid UTF-8", ct, got)
		}
		if got != want {
			t.Fatalf("Label(%q)=%q want %q", ct, got, want)
		}
	}
}

func TestBuildStudyPlanTitleUsesShortTemplate(t *testing.T) {
	p := Build("study_plan_title", Options{"wordCount": float64(900), "tone": "fun"}, "organic chemistry midterm")
	if !strings.Contains(p.User, "3 to 8 words") || !strings.Contains(p.User, "single line") {
		t.Fatalf("title template not used:\n%s", p.User)
	}
	if strings.Contains(p.User, "Aim for approximately") || strings.Contains(p.User, "tone") {
		t.Fatalf("title template should not carry length or tone clauses:\n%s", p.User)
	}
	if !strings.Contains(p.User, "organic chemistry midterm") {
		t.Fatalf("context missing from title prompt")
	}
}

func TestBuildStudyPlanWithoutContext(t *testing.T) {
	p := Build("study_plan", Options{"wordCount": 300}, "  ")
	if !strings.Contains(p.User, "Create a detailed study plan for a student") {
		t.Fatalf("unexpected user prompt:\n%s", p.User)
	}
	if !strings.Contains(p.User, "Aim for approximately 300 words.") {
		t.Fatalf("int wordCount should be honored:\n%s", p.User)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := formatNumber(250); got != "250" {
		t.Fatalf("formatNumber(250)=%q", got)
	}
	if got := formatNumber(12.5); got != "12.5" {
		t.Fatalf("formatNumber(12.5)=%q", got)
	}
}

func TestSchedulePromptEmbedsAllCollections(t *testing.T) {
	p := Schedule(ScheduleInput{
		Schedule:      json.RawMessage(`[{"course":"BIO 101"}]`),
		Assignments:   json.RawMessage(`[{"title":"Lab report"}]`),
		Events:        json.RawMessage(`[]`),
		Tasks:         json.RawMessage(`[{"title":"Laundry"}]`),
		StudySessions: json.RawMessage(`[]`),
	})
	for _, want := range []string{"BIO 101", "Lab report", "Laundry", "Existing study sessions:"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("schedule prompt missing %q", want)
		}
	}
	if !strings.Contains(p.System, "scheduleItems") {
		t.Fatalf("schedule system prompt should describe the JSON shape")
	}
}

func TestMenuPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxMenuTextRunes+100)
	p := Menu("lunch", long)
	if strings.Count(p.User, "a") > maxMenuTextRunes+10 {
		t.Fatalf("menu text not truncated")
	}
	if !strings.HasPrefix(p.User, "Menu type: lunch") {
		t.Fatalf("menu type missing: %q", p.User[:40])
	}
}

func TestSuggestionsPrompt(t *testing.T) {
	if p := Suggestions(""); !strings.Contains(p.User, "just opened the chat") {
		t.Fatalf("empty context prompt: %q", p.User)
	}
	if p := Suggestions("mitosis vs meiosis"); !strings.Contains(p.User, "mitosis vs meiosis") {
		t.Fatalf("context missing: %q", p.User)
	}
}
