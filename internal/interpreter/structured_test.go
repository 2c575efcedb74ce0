package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/rizziq/internal/apperrors"
)

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Result
	}{
		{
			name:    "filters options with empty content",
			content: `{"analysis":"ok","options":[{"title":"A","content":""},{"title":"B","content":"hi"}]}`,
			want: Result{
				Analysis: "ok",
				Options:  []Option{{Title: "B", Content: "hi"}},
			},
		},
		{
			name:    "kill-switch yields analysis only",
			content: `{"analysis":"🛑 RED FLAG DETECTED: Love Bombing. Do not engage.","options":[]}`,
			want: Result{
				Analysis: "🛑 RED FLAG DETECTED: Love Bombing. Do not engage.",
				Options:  []Option{},
			},
		},
		{
			name:    "missing fields default to empty",
			content: `{}`,
			want:    Result{Options: []Option{}},
		},
		{
			name:    "mistyped fields default to empty",
			content: `{"analysis":42,"options":"nope"}`,
			want:    Result{Options: []Option{}},
		},
		{
			name:    "non-string content and title are tolerated",
			content: `{"analysis":"x","options":[{"title":7,"content":"keep"},{"title":"N","content":5},"junk"]}`,
			want: Result{
				Analysis: "x",
				Options:  []Option{{Title: "", Content: "keep"}},
			},
		},
		{
			name: "caps at three options",
			content: `{"analysis":"a","options":[
				{"title":"1","content":"one"},{"title":"2","content":"two"},
				{"title":"3","content":"three"},{"title":"4","content":"four"}]}`,
			want: Result{
				Analysis: "a",
				Options: []Option{
					{Title: "1", Content: "one"},
					{Title: "2", Content: "two"},
					{Title: "3", Content: "three"},
				},
			},
		},
		{
			name:    "code fences are stripped",
			content: "```json\n{\"analysis\":\"fenced\",\"options\":[{\"title\":\"The Stoic\",\"content\":\"k.\"}]}\n```",
			want: Result{
				Analysis: "fenced",
				Options:  []Option{{Title: "The Stoic", Content: "k."}},
			},
		},
		{
			name:    "blank content after trimming is dropped",
			content: `{"analysis":" spaced ","options":[{"title":"A","content":"   "}]}`,
			want:    Result{Analysis: "spaced", Options: []Option{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructured(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStructured_InvalidJSON(t *testing.T) {
	for _, content := range []string{"", "She is cold.", `{"analysis":`, "```\nnot json\n```"} {
		_, err := ParseStructured(content)
		require.Error(t, err, "content %q", content)
		assert.True(t, apperrors.IsKind(err, apperrors.KindParse))

		msg, _ := apperrors.Public(err)
		assert.Equal(t, ParseFailedMessage, msg)
	}
}

func TestParseStructured_Idempotent(t *testing.T) {
	content := `{"analysis":"ok","options":[{"title":"B","content":"hi"}]}`
	first, err := ParseStructured(content)
	require.NoError(t, err)
	second, err := ParseStructured(content)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResultFlags(t *testing.T) {
	assert.True(t, Result{Analysis: "warning"}.AnalysisOnly())
	assert.False(t, Result{Analysis: "a", Options: []Option{{Content: "x"}}}.AnalysisOnly())
	assert.True(t, Result{}.Empty())
}
