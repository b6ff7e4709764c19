package risk

import (
	"fmt"
	"strconv"
	"strings"
)

// Derived columns appended by batch prediction
var derivedColumns = []string{"prediction", "risk_label", "confidence"}

// Table holds an uploaded tabular file: header plus raw string cells.
// Whatever columns are present are passed through to the classifier
// uninspected; the artifact itself rejects a shape it does not expect.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Matrix converts every cell into a float64 feature value.
func (t *Table) Matrix() ([][]float64, error) {
	out := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		vec := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				col := fmt.Sprintf("column %d", j+1)
				if j < len(t.Columns) {
					col = t.Columns[j]
				}
				return nil, fmt.Errorf("row %d, %s: could not convert %q to a number", i+1, col, cell)
			}
			vec[j] = v
		}
		out[i] = vec
	}
	return out, nil
}

// Augment appends the prediction, risk_label and confidence columns per row.
func (t *Table) Augment(classes []int, probas [][2]float64) error {
	if len(classes) != len(t.Rows) || len(probas) != len(t.Rows) {
		return fmt.Errorf("classifier returned %d/%d results for %d rows", len(classes), len(probas), len(t.Rows))
	}
	t.Columns = append(t.Columns, derivedColumns...)
	for i := range t.Rows {
		p := NewPrediction(classes[i], probas[i])
		t.Rows[i] = append(t.Rows[i],
			strconv.Itoa(p.Class),
			p.RiskLabel,
			strconv.FormatFloat(p.Confidence, 'f', -1, 64),
		)
	}
	return nil
}
