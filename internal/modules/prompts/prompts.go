package prompts

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/edubox-backend/internal/domain"
)

// Prompt is a rendered system/user pair plus the title a persisted record
// should carry.
type Prompt struct {
	System string
	User   string
	Title  string
}

var contentLabels = map[string]string{
	"essay":            "Essay",
	"summary":          "Summary",
	"notes":            "Study Notes",
	"flashcards":       "Flashcards",
	"quiz":             "Practice Quiz",
	"outline":          "Outline",
	"email":            "Email",
	"report":           "Report",
	"presentation":     "Presentation Outline",
	"cover_letter":     "Cover Letter",
	"study_plan":       "Study Plan",
	"general":          "Generated Content",
	"study_plan_title": "Study Plan Title",
}

// Label returns the human label for a content type tag.
func Label(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.ToValidUTF8(contentType, "")))
	if l, ok := contentLabels[ct]; ok {
		return l
	}
	if ct == "" {
		return contentLabels["general"]
	}
	words := strings.FieldsFunc(ct, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Build renders the prompt for the streaming routes. study_plan and
// study_plan_title use the study templates; every other tag uses the
// content template.
func Build(contentType string, opts Options, context string) Prompt {
	switch strings.TrimSpace(contentType) {
	case domain.ContentTypeStudyPlanTitle:
		return buildStudyTitle(context)
	case domain.ContentTypeStudyPlan:
		return buildStudyPlan(opts, context)
	default:
		return buildContent(contentType, opts, context)
	}
}

func buildContent(contentType string, opts Options, topic string) Prompt {
	label := Label(contentType)
	system := fmt.Sprintf(
		"You are EduBox, a writing assistant for students. Write clear, well-structured %s content. "+
			"Use Markdown headings and lists where they help. Do not mention that you are an AI.",
		strings.ToLower(label),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s based on the following request:\n\n%s", strings.ToLower(label), strings.TrimSpace(topic))
	appendCommonClauses(&b, opts)

	return Prompt{System: system, User: b.String(), Title: titleOr(opts, label)}
}

func buildStudyPlan(opts Options, context string) Prompt {
	system := "You are EduBox, a study coach. Build realistic, actionable study plans that break work into " +
		"sessions with clear goals, spaced review and short breaks. Use Markdown."

	var b strings.Builder
	b.WriteString("Create a detailed study plan")
	if c := strings.TrimSpace(context); c != "" {
		b.WriteString(" using this context:\n\n")
		b.WriteString(c)
	} else {
		b.WriteString(" for a student preparing for upcoming coursework.")
	}
	appendCommonClauses(&b, opts)

	return Prompt{System: system, User: b.String(), Title: titleOr(opts, Label(domain.ContentTypeStudyPlan))}
}

func buildStudyTitle(context string) Prompt {
	system := "You write short titles for study plans. Reply with the title only."
	user := "Write a title of 3 to 8 words for a study plan based on the context below. " +
		"Respond with a single line containing only the title, with no quotes and no commentary."
	if c := strings.TrimSpace(context); c != "" {
		user += "\n\nContext:\n" + c
	}
	return Prompt{System: system, User: user, Title: Label(domain.ContentTypeStudyPlanTitle)}
}

func appendCommonClauses(b *strings.Builder, opts Options) {
	if n, ok := opts.Number("wordCount"); ok && n > 0 {
		fmt.Fprintf(b, "\n\nAim for approximately %s words.", formatNumber(n))
	}
	if tone, ok := opts.String("tone"); ok {
		fmt.Fprintf(b, "\n\nUse a %s tone.", tone)
	}
	if extra, ok := opts.String("userPrompt"); ok {
		fmt.Fprintf(b, "\n\nAdditional instructions:\n%s", extra)
	}
}

func titleOr(opts Options, def string) string {
	if t, ok := opts.String("title"); ok {
		return t
	}
	return def
}
