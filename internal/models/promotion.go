package models

// PromotionFailure reports why one student's transition did not complete,
// with enough identity for an administrator to correct the data and retry
// only the failed subset.
type PromotionFailure struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	AdmissionNo string `json:"admission_no"`
	Reason      string `json:"reason"`
}

// PromotionBatchResult summarises one promotion workflow execution. It is a
// response value, never persisted.
type PromotionBatchResult struct {
	Attempted      int                `json:"attempted"`
	Promoted       int                `json:"promoted"`
	Failed         int                `json:"failed"`
	Errors         []string           `json:"errors"`
	FailureDetails []PromotionFailure `json:"failure_details"`
}
