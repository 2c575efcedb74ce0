package apimodels

import "encoding/json"

type AnalysisRequest struct {
	// Base64 screenshot, bare or as a data URI. Kept raw so that a missing,
	// null or non-string value can be told apart from a decoding failure.
	Image json.RawMessage `json:"image"`
}

// NewAnalysisRequest wraps an already encoded image.
func NewAnalysisRequest(image string) AnalysisRequest {
	raw, _ := json.Marshal(image)
	return AnalysisRequest{Image: raw}
}
