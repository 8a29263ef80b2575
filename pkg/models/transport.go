package models

// AnalyzeURLRequest asks for the analysis of an image reachable by URL
type AnalyzeURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SkinAnalysisResponse is returned by every analysis endpoint
type SkinAnalysisResponse struct {
	AnalysisID        string                    `json:"analysis_id"`
	Source            string                    `json:"source,omitempty"`
	Timestamp         string                    `json:"timestamp"`
	ProcessingTimeSec float64                   `json:"processing_time_sec"`
	Analysis          SkinReport                `json:"analysis"`
	RawResponse       string                    `json:"raw_response"`
	Recommendations   []TreatmentRecommendation `json:"recommendations"`
	Features          *FeatureSnapshot          `json:"features,omitempty"`
}
