package interpreter

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sozercan/rizziq/internal/apperrors"
)

// ParseFailedMessage is the caller-facing message for unreadable structured output.
const ParseFailedMessage = "Failed to parse AI response."

// ParseStructured reads a completion produced under the JSON output contract:
//
//	{"analysis": "...", "options": [{"title": "...", "content": "..."}]}
//
// Content that is not JSON yields a parse error. Missing or mistyped fields fall
// back to their zero values, options with blank content are dropped and at most
// MaxOptions are kept.
func ParseStructured(content string) (Result, error) {
	body := StripCodeFences(content)
	if !gjson.Valid(body) {
		return Result{}, apperrors.New(apperrors.KindParse, "interpreter.ParseStructured", ParseFailedMessage).
			WithDetails("completion content is not valid JSON")
	}

	root := gjson.Parse(body)
	result := Result{Options: []Option{}}

	if analysis := root.Get("analysis"); analysis.Type == gjson.String {
		result.Analysis = strings.TrimSpace(analysis.Str)
	}

	options := root.Get("options")
	if !options.IsArray() {
		return result, nil
	}
	options.ForEach(func(_, entry gjson.Result) bool {
		content := entry.Get("content")
		if content.Type != gjson.String || strings.TrimSpace(content.Str) == "" {
			return true
		}
		var title string
		if t := entry.Get("title"); t.Type == gjson.String {
			title = strings.TrimSpace(t.Str)
		}
		result.Options = append(result.Options, Option{
			Title:   title,
			Content: strings.TrimSpace(content.Str),
		})
		return len(result.Options) < MaxOptions
	})

	return result, nil
}

// StripCodeFences removes a surrounding Markdown code fence, which models
// sometimes add even when asked for bare JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
