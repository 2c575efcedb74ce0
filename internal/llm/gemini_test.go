package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{
			name: "joins text parts of the first candidate",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Role: "model", Parts: []genai.Part{
						genai.Text(`{"analysis":"cold",`),
						genai.Text(`"options":[]}`),
					}}},
					{Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("second")}}},
				},
			},
			want: `{"analysis":"cold","options":[]}`,
		},
		{
			name: "skips candidates without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{},
					{Content: &genai.Content{Parts: []genai.Part{genai.Text("fallback")}}},
				},
			},
			want: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, candidateText(tt.resp))
		})
	}
}

func TestConfigureModel(t *testing.T) {
	m := &genai.GenerativeModel{}
	configureModel(m, "be witty", Options{MaxTokens: 250, JSON: true})

	require.NotNil(t, m.MaxOutputTokens)
	assert.Equal(t, int32(250), *m.MaxOutputTokens)
	assert.Equal(t, "application/json", m.ResponseMIMEType)
	require.NotNil(t, m.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text("be witty")}, m.SystemInstruction.Parts)

	freeform := &genai.GenerativeModel{}
	configureModel(freeform, "p", Options{MaxTokens: 500})
	assert.Empty(t, freeform.ResponseMIMEType)
}

func TestImagePart(t *testing.T) {
	blob, ok := imagePart(testImage).(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, []byte("png-bytes"), blob.Data)
}
