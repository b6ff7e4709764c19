package risk

// Risk labels mapped from the binary class
const (
	LabelLowRisk  = "Low Risk"
	LabelHighRisk = "High Risk"
)

// RiskLabel maps a 0/1 class to its display label.
func RiskLabel(class int) string {
	if class == 1 {
		return LabelHighRisk
	}
	return LabelLowRisk
}

// Prediction value object: one classifier verdict for one record.
// Probabilities holds [p_low, p_high]; Confidence is their max.
type Prediction struct {
	Class         int        `json:"prediction"`
	RiskLabel     string     `json:"risk_label"`
	Probabilities [2]float64 `json:"probabilities"`
	Confidence    float64    `json:"confidence"`
}

// NewPrediction derives the label and confidence from raw classifier output.
func NewPrediction(class int, proba [2]float64) Prediction {
	conf := proba[0]
	if proba[1] > conf {
		conf = proba[1]
	}
	return Prediction{
		Class:         class,
		RiskLabel:     RiskLabel(class),
		Probabilities: proba,
		Confidence:    conf,
	}
}
