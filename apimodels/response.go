package apimodels

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/sozercan/rizziq/internal/interpreter"
)

// AnalysisResponse is the outcome of one analysis. Its wire form depends on
// the deployment's output contract: {result} for freeform, {analysis, options}
// otherwise.
type AnalysisResponse struct {
	// Freeform selects the {result} wire shape.
	Freeform bool

	// Raw completion text, freeform contract only
	Result string

	// Short read of the conversation, structured contract only
	Analysis string

	// Zero to three suggested replies, structured contract only
	Options []interpreter.Option

	// Metadata about the analysis. Logged server-side, never sent.
	Metadata AnalysisMetadata
}

type StructuredResponse struct {
	Analysis string               `json:"analysis"`
	Options  []interpreter.Option `json:"options"`
}

type FreeformResponse struct {
	Result string `json:"result"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// AnalysisMetadata describes how an analysis was produced. It is logged
// server-side and has no wire form.
type AnalysisMetadata struct {
	// Time taken for analysis
	Duration string

	// Model that answered
	Model string

	// Tokens used in analysis
	TokensUsed int64
}

func (r AnalysisResponse) MarshalJSON() ([]byte, error) {
	if r.Freeform {
		return json.Marshal(FreeformResponse{Result: r.Result})
	}
	options := r.Options
	if options == nil {
		options = []interpreter.Option{}
	}
	return json.Marshal(StructuredResponse{Analysis: r.Analysis, Options: options})
}

// UnmarshalJSON accepts either wire shape. A body carrying "result" and no
// "analysis" is read as freeform.
func (r *AnalysisResponse) UnmarshalJSON(data []byte) error {
	if gjson.GetBytes(data, "result").Exists() && !gjson.GetBytes(data, "analysis").Exists() {
		var f FreeformResponse
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*r = AnalysisResponse{Freeform: true, Result: f.Result}
		return nil
	}

	var s StructuredResponse
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = AnalysisResponse{Analysis: s.Analysis, Options: s.Options}
	return nil
}

// Interpret returns the normalized result regardless of the wire shape.
func (r AnalysisResponse) Interpret() interpreter.Result {
	if r.Freeform {
		return interpreter.ParseFreeform(r.Result).Result()
	}
	options := r.Options
	if options == nil {
		options = []interpreter.Option{}
	}
	return interpreter.Result{Analysis: r.Analysis, Options: options}
}
