package prompts

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const maxMenuTextRunes = 12000

func Suggestions(contextSummary string) Prompt {
	system := "You suggest follow-up questions a student could ask an AI study assistant. " +
		"Return a JSON array of 3 to 5 short strings and nothing else."
	user := "The student has just opened the chat. Suggest helpful ways to get started."
	if c := strings.TrimSpace(contextSummary); c != "" {
		user = "Recent conversation summary:\n" + c + "\n\nSuggest the student's most useful next questions."
	}
	return Prompt{System: system, User: user, Title: "Chat Suggestions"}
}

// ScheduleInput carries the five client collections verbatim.
type ScheduleInput struct {
	Schedule      json.RawMessage `json:"schedule"`
	Assignments   json.RawMessage `json:"assignments"`
	Events        json.RawMessage `json:"events"`
	Tasks         json.RawMessage `json:"tasks"`
	StudySessions json.RawMessage `json:"studySessions"`
}

func Schedule(in ScheduleInput) Prompt {
	system := "You are a scheduling assistant for students. Given their class schedule, assignments, events, " +
		"tasks and existing study sessions, produce an optimized weekly plan that respects fixed commitments, " +
		"puts harder work earlier and leaves room for breaks. Respond with a single JSON object of the form " +
		`{"scheduleItems":[{"title":string,"type":string,"day":string,"startTime":string,"endTime":string,"priority":string,"notes":string}],"notes":string}` +
		" and no other text."

	var b strings.Builder
	b.WriteString("Optimize this student's schedule.\n")
	writeSection(&b, "Class schedule", in.Schedule)
	writeSection(&b, "Assignments", in.Assignments)
	writeSection(&b, "Events", in.Events)
	writeSection(&b, "Tasks", in.Tasks)
	writeSection(&b, "Existing study sessions", in.StudySessions)

	return Prompt{System: system, User: b.String(), Title: "Optimized Schedule"}
}

func writeSection(b *strings.Builder, name string, raw json.RawMessage) {
	b.WriteString("\n")
	b.WriteString(name)
	b.WriteString(":\n")
	if len(raw) == 0 {
		b.WriteString("[]\n")
		return
	}
	b.Write(raw)
	b.WriteString("\n")
}

func Menu(menuType, text string) Prompt {
	system := "You extract dining menu items from raw text. Return only a JSON array of objects with the keys " +
		`"name" (string), "price" (number, optional), "description" (string, optional) and "category" (string, optional).`

	if utf8.RuneCountInString(text) > maxMenuTextRunes {
		text = string([]rune(text)[:maxMenuTextRunes])
	}
	var b strings.Builder
	if t := strings.TrimSpace(menuType); t != "" {
		b.WriteString("Menu type: ")
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	b.WriteString("Menu text:\n")
	b.WriteString(text)

	return Prompt{System: system, User: b.String(), Title: "Menu Extraction"}
}
