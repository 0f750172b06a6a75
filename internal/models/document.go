package models

import "time"

// Status tracks how far a document has progressed through the pipeline.
type Status string

const (
	StatusUploaded                 Status = "uploaded"
	StatusProcessingOCR            Status = "processing_ocr"
	StatusOCRComplete              Status = "ocr_complete"
	StatusProcessingClassification Status = "processing_classification"
	StatusClassificationComplete   Status = "classification_complete"
	StatusProcessingSummarization  Status = "processing_summarization"
	StatusComplete                 Status = "complete"
	StatusOCRError                 Status = "ocr_error"
	StatusClassificationError      Status = "classification_error"
	StatusSummarizationError       Status = "summarization_error"
	StatusError                    Status = "error"
)

// IsError reports whether the status is one of the error states.
func (s Status) IsError() bool {
	switch s {
	case StatusOCRError, StatusClassificationError, StatusSummarizationError, StatusError:
		return true
	}
	return false
}

// IsTerminal reports whether no further stage will run for the document
// without outside intervention.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s.IsError()
}

// Document represents the status record for an uploaded document in Firestore.
// It is created at intake and updated in place by each stage.
type Document struct {
	DocumentID          string          `firestore:"documentId" json:"documentId"`
	FileName            string          `firestore:"fileName" json:"fileName"`
	UploadTime          time.Time       `firestore:"uploadTime" json:"uploadTime"`
	Status              Status          `firestore:"status" json:"status"`
	OCRResults          *OCRResults     `firestore:"ocrResults,omitempty" json:"ocrResults,omitempty"`
	Classification      *Classification `firestore:"classification,omitempty" json:"classification,omitempty"`
	Summary             *Summary        `firestore:"summary,omitempty" json:"summary,omitempty"`
	PageCount           int             `firestore:"pageCount,omitempty" json:"pageCount,omitempty"`
	ProcessingError     string          `firestore:"processingError,omitempty" json:"processingError,omitempty"`
	OCRError            string          `firestore:"ocrError,omitempty" json:"ocrError,omitempty"`
	ClassificationError string          `firestore:"classificationError,omitempty" json:"classificationError,omitempty"`
	SummaryError        string          `firestore:"summaryError,omitempty" json:"summaryError,omitempty"`
	UpdatedAt           time.Time       `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// OCRResults is the output of the text extraction stage. A degraded result
// carries Error with empty RawText and KeyValuePairs.
type OCRResults struct {
	Error         string            `firestore:"error,omitempty" json:"error,omitempty"`
	RawText       string            `firestore:"rawText" json:"rawText"`
	KeyValuePairs map[string]string `firestore:"keyValuePairs" json:"keyValuePairs"`
	MarkdownJSON  []map[string]any  `firestore:"markdownJson,omitempty" json:"markdownJson,omitempty"`
	ExtractedAt   string            `firestore:"extractedAt,omitempty" json:"extractedAt,omitempty"`
}

// Classification is the validated answer of the classification stage.
type Classification struct {
	Category   Category `firestore:"category" json:"category"`
	Confidence float64  `firestore:"confidence" json:"confidence"`
	Reason     string   `firestore:"reason" json:"reason"`
}

// Summary is the output of the summarization stage.
type Summary struct {
	Text        string   `firestore:"text" json:"text"`
	KeyPoints   []string `firestore:"keyPoints" json:"keyPoints"`
	Category    Category `firestore:"category" json:"category"`
	GeneratedAt string   `firestore:"generatedAt,omitempty" json:"generatedAt,omitempty"`
}
