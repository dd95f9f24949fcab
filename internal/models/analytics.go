package models

import "time"

// SubjectAnalysis summarises one subject's results within a stream for one
// exam, counting only students actively enrolled in that stream for the
// exam's period.
type SubjectAnalysis struct {
	ExamID       string  `json:"exam_id"`
	SubjectID    string  `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	StreamID     string  `json:"stream_id"`
	StudentCount int     `json:"student_count"`
	MeanScore    float64 `json:"mean_score"`
	HasData      bool    `json:"has_data"`
}

// StudentSubjectResult is one line of a student's performance report.
type StudentSubjectResult struct {
	SubjectID   string   `json:"subject_id"`
	SubjectName string   `json:"subject_name"`
	Score       *float64 `json:"score"`
	Grade       string   `json:"grade,omitempty"`
	Remarks     string   `json:"remarks,omitempty"`
}

// StudentPerformance aggregates a student's results across subjects for one
// exam.
type StudentPerformance struct {
	StudentID   string                 `json:"student_id"`
	StudentName string                 `json:"student_name"`
	AdmissionNo string                 `json:"admission_no"`
	ExamID      string                 `json:"exam_id"`
	Subjects    []StudentSubjectResult `json:"subjects"`
	Average     float64                `json:"average"`
	HasData     bool                   `json:"has_data"`
}

// SubjectDifficulty carries classical item-analysis metrics for one subject
// within a stream for one exam. Discrimination is nil below the minimum
// cohort size rather than a divide-by-zero artefact.
type SubjectDifficulty struct {
	ExamID             string   `json:"exam_id"`
	SubjectID          string   `json:"subject_id"`
	StreamID           string   `json:"stream_id"`
	StudentCount       int      `json:"student_count"`
	MeanScore          float64  `json:"mean_score"`
	PassRate           float64  `json:"pass_rate"`
	DifficultyIndex    float64  `json:"difficulty_index"`
	Discrimination     *float64 `json:"discrimination_index"`
	InsufficientSample bool     `json:"insufficient_sample"`
}

// MeritEntry is one ranked row of a subject merit list.
type MeritEntry struct {
	Position    int     `json:"position"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	AdmissionNo string  `json:"admission_no"`
	Score       float64 `json:"score"`
	Percentage  float64 `json:"percentage"`
	Grade       string  `json:"grade"`
	Remarks     string  `json:"remarks,omitempty"`
}

// SystemMetrics is a lightweight instrumentation snapshot for the analytics
// surface.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"avg_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// ImprovementEntry reports a student's term-over-term average delta.
type ImprovementEntry struct {
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	AdmissionNo   string  `json:"admission_no"`
	ComparisonAvg float64 `json:"comparison_avg"`
	CurrentAvg    float64 `json:"current_avg"`
	Improvement   float64 `json:"improvement"`
}
