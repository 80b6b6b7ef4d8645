package domain

import (
	"time"
)

// IssueReason classifies why a raw row failed normalization
type IssueReason string

const (
	IssueMissingTrainer IssueReason = "missing_trainer"
	IssueInvalidScore   IssueReason = "invalid_score"
	IssueMalformedRow   IssueReason = "malformed_row"
)

// ParseIssue records a row that could not be normalized. Issues are
// accumulated for the whole run and surfaced in the final result, never
// dropped.
type ParseIssue struct {
	RowRef string      `json:"row_ref"`
	Reason IssueReason `json:"reason"`
	Detail string      `json:"detail,omitempty"`
}

// RecordComment is one free-text answer attached to a feedback record
type RecordComment struct {
	Column string `json:"column"`
	Text   string `json:"text"`
}

// FeedbackRecord is a normalized survey response. A record exists only if
// the trainer identifier resolved to a non-empty value and at least one
// score field parsed inside the configured range.
type FeedbackRecord struct {
	RowRef         string             `json:"row_ref"`
	Trainer        string             `json:"trainer"`
	Scores         map[string]float64 `json:"scores"`
	CompositeScore float64            `json:"composite_score"`
	Comments       []RecordComment    `json:"comments,omitempty"`
	Timestamp      *time.Time         `json:"timestamp,omitempty"`
}

// IsValid checks the record invariant
func (r FeedbackRecord) IsValid() bool {
	return r.Trainer != "" && len(r.Scores) > 0
}
