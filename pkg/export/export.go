package export

import (
	"fmt"
	"strconv"

	"github.com/Lameck1/mwingi-school-erp-sub000/internal/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// MeritListDataset flattens a ranked merit list into an exportable table.
func MeritListDataset(title string, entries []models.MeritEntry) Dataset {
	ds := Dataset{
		Title:   title,
		Headers: []string{"Position", "Adm No", "Name", "Score", "%", "Grade"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		ds.Rows = append(ds.Rows, []string{
			strconv.Itoa(e.Position),
			e.AdmissionNo,
			e.StudentName,
			fmt.Sprintf("%.1f", e.Score),
			fmt.Sprintf("%.1f", e.Percentage),
			e.Grade,
		})
	}
	return ds
}
