package models

// GradeBand maps an inclusive score interval to a letter grade for one
// curriculum. Bands are configured non-overlapping and covering [0,100];
// gaps and overlaps are data-integrity errors surfaced to the caller, not
// resolved in code.
type GradeBand struct {
	ID         string     `db:"id" json:"id"`
	Curriculum Curriculum `db:"curriculum" json:"curriculum"`
	Grade      string     `db:"grade" json:"grade"`
	Remarks    string     `db:"remarks" json:"remarks"`
	MinScore   float64    `db:"min_score" json:"min_score"`
	MaxScore   float64    `db:"max_score" json:"max_score"`
}

// Contains reports inclusive band membership.
func (b GradeBand) Contains(score float64) bool {
	return score >= b.MinScore && score <= b.MaxScore
}
