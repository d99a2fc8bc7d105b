package model

// ConversionStats summarizes the committed, cleaned table set for one file.
type ConversionStats struct {
	TablesFound    int     `json:"tables_found"`
	TotalRows      int     `json:"total_rows"`
	TotalColumns   int     `json:"total_columns"`
	AccuracyScore  float64 `json:"accuracy_score"`
	ProcessingTime float64 `json:"processing_time"`
}

// QualityMetrics are the objective quality signals downstream consumers use
// to judge trustworthiness of a result. All values are in [0,1].
type QualityMetrics struct {
	Completeness  float64 `json:"completeness"`
	Consistency   float64 `json:"consistency"`
	AccuracyScore float64 `json:"accuracy_score"`
}

// ConversionResult is the per-file output envelope. It is exclusively owned
// by the request that produced it and holds no reference to the source file.
type ConversionResult struct {
	Success  bool            `json:"success"`
	FileID   string          `json:"file_id"`
	CSVText  string          `json:"-"`
	Stats    ConversionStats `json:"conversion_stats"`
	Metrics  QualityMetrics  `json:"quality_metrics"`
	Warnings []string        `json:"warnings"`
	Error    *string         `json:"error"`

	// Message is a human-readable elaboration of Error, empty on success.
	Message string `json:"message,omitempty"`
}

// FailedResult builds a failed ConversionResult from a tagged error.
func FailedResult(fileID string, err *ConversionError) *ConversionResult {
	tag := string(err.Tag)
	return &ConversionResult{
		Success:  false,
		FileID:   fileID,
		Warnings: []string{},
		Error:    &tag,
		Message:  err.Message,
	}
}

// BatchResult wraps per-file results for a batch request. Results preserves
// the submission order of the inputs regardless of completion order.
type BatchResult struct {
	Results               []*ConversionResult `json:"results"`
	TotalFiles            int                 `json:"total_files"`
	SuccessfulConversions int                 `json:"successful_conversions"`
	FailedConversions     int                 `json:"failed_conversions"`
}
