package apimodels

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/rizziq/internal/interpreter"
)

func TestAnalysisResponseMarshal(t *testing.T) {
	metadata := AnalysisMetadata{Duration: "1s", Model: "gpt-4o", TokensUsed: 10}

	structured, err := json.Marshal(&AnalysisResponse{
		Analysis: "cold",
		Options:  []interpreter.Option{{Title: "Stoic", Content: "ok"}},
		Metadata: metadata,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"cold","options":[{"title":"Stoic","content":"ok"}]}`, string(structured))

	empty, err := json.Marshal(AnalysisResponse{Analysis: "warning"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"warning","options":[]}`, string(empty))

	freeform, err := json.Marshal(AnalysisResponse{Freeform: true, Result: "Analysis: x", Metadata: metadata})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"Analysis: x"}`, string(freeform))
}

func TestAnalysisResponseUnmarshal(t *testing.T) {
	var freeform AnalysisResponse
	require.NoError(t, json.Unmarshal([]byte(`{"result":"Options:\nStoic: y\n\nAnalysis: cold."}`), &freeform))
	assert.True(t, freeform.Freeform)
	assert.Equal(t, interpreter.Result{
		Analysis: "cold.",
		Options:  []interpreter.Option{{Title: interpreter.Stoic, Content: "y"}},
	}, freeform.Interpret())

	var structured AnalysisResponse
	require.NoError(t, json.Unmarshal([]byte(`{"analysis":"cold"}`), &structured))
	assert.False(t, structured.Freeform)
	assert.Equal(t, interpreter.Result{Analysis: "cold", Options: []interpreter.Option{}}, structured.Interpret())
}
