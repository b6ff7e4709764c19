package risk

import "fmt"

// Fixed form values
const (
	DefaultYear     = 2013
	DefaultAgeGroup = 7
	AgeGroupMin     = 1
	AgeGroupMax     = 13
	RaceEthMin      = 1
	RaceEthMax      = 6
)

// Columns lists the feature names in the exact order the trained pipeline
// expects. Column set and order are an external contract with the serialized
// artifact; reordering breaks inference.
var Columns = []string{
	"year",
	"age_group_5_years",
	"race_eth",
	"first_degree_hx",
	"age_menarche",
	"age_first_birth",
	"BIRADS_breast_density",
	"current_hrt",
	"menopaus",
	"bmi_group",
	"biophx",
}

// Menarche enum: coded age at menarche
type Menarche int

const (
	MenarcheLate   Menarche = 0
	MenarcheEarly  Menarche = 1
	MenarcheNormal Menarche = 2
)

var menarcheCodes = map[string]Menarche{
	"Late":   MenarcheLate,
	"Early":  MenarcheEarly,
	"Normal": MenarcheNormal,
}

// MenarcheOptions in form order
var MenarcheOptions = []string{"Late", "Early", "Normal"}

func ParseMenarche(label string) (Menarche, error) {
	c, ok := menarcheCodes[label]
	if !ok {
		return 0, fmt.Errorf("%w: age_menarche %q", ErrUnknownLabel, label)
	}
	return c, nil
}

func (m Menarche) Valid() bool { return m >= MenarcheLate && m <= MenarcheNormal }

func (m Menarche) Label() string {
	for l, c := range menarcheCodes {
		if c == m {
			return l
		}
	}
	return ""
}

// FirstBirth enum: coded age at first birth
type FirstBirth int

const (
	FirstBirthEarly    FirstBirth = 1
	FirstBirthNormal   FirstBirth = 2
	FirstBirthLate     FirstBirth = 3
	FirstBirthVeryLate FirstBirth = 4
)

var firstBirthCodes = map[string]FirstBirth{
	"Early":     FirstBirthEarly,
	"Normal":    FirstBirthNormal,
	"Late":      FirstBirthLate,
	"Very Late": FirstBirthVeryLate,
}

// FirstBirthOptions in form order
var FirstBirthOptions = []string{"Early", "Normal", "Late", "Very Late"}

func ParseFirstBirth(label string) (FirstBirth, error) {
	c, ok := firstBirthCodes[label]
	if !ok {
		return 0, fmt.Errorf("%w: age_first_birth %q", ErrUnknownLabel, label)
	}
	return c, nil
}

func (f FirstBirth) Valid() bool { return f >= FirstBirthEarly && f <= FirstBirthVeryLate }

func (f FirstBirth) Label() string {
	for l, c := range firstBirthCodes {
		if c == f {
			return l
		}
	}
	return ""
}

// Menopause enum: coded menopause status
type Menopause int

const (
	MenopausePre  Menopause = 1
	MenopausePost Menopause = 2
	MenopausePeri Menopause = 3
)

var menopauseCodes = map[string]Menopause{
	"Pre":  MenopausePre,
	"Post": MenopausePost,
	"Peri": MenopausePeri,
}

// MenopauseOptions in form order
var MenopauseOptions = []string{"Pre", "Post", "Peri"}

func ParseMenopause(label string) (Menopause, error) {
	c, ok := menopauseCodes[label]
	if !ok {
		return 0, fmt.Errorf("%w: menopaus %q", ErrUnknownLabel, label)
	}
	return c, nil
}

func (m Menopause) Valid() bool { return m >= MenopausePre && m <= MenopausePeri }

func (m Menopause) Label() string {
	for l, c := range menopauseCodes {
		if c == m {
			return l
		}
	}
	return ""
}

// Density enum: BIRADS breast density category
type Density int

const (
	DensityFatty     Density = 1
	DensityScattered Density = 2
	DensityHetero    Density = 3
	DensityExtreme   Density = 4
)

var densityNames = map[Density]string{
	DensityFatty:     "Fatty",
	DensityScattered: "Scattered",
	DensityHetero:    "Heterogeneously Dense",
	DensityExtreme:   "Extremely Dense",
}

func (d Density) Valid() bool { return d >= DensityFatty && d <= DensityExtreme }

func (d Density) Label() string { return densityNames[d] }

// BMIGroup enum: coded BMI category
type BMIGroup int

const (
	BMIUnderweight BMIGroup = 1
	BMINormal      BMIGroup = 2
	BMIOverweight  BMIGroup = 3
	BMIObese       BMIGroup = 4
)

var bmiNames = map[BMIGroup]string{
	BMIUnderweight: "Underweight",
	BMINormal:      "Normal",
	BMIOverweight:  "Overweight",
	BMIObese:       "Obese",
}

func (b BMIGroup) Valid() bool { return b >= BMIUnderweight && b <= BMIObese }

func (b BMIGroup) Label() string { return bmiNames[b] }

// YesNo renders a 0/1 flag the way the form displays it.
func YesNo(v int) string {
	if v == 1 {
		return "Yes"
	}
	return "No"
}

// Record is the single-row feature input the pipeline consumes.
// Field order mirrors Columns.
type Record struct {
	Year          int        `json:"year"`
	AgeGroup      int        `json:"age_group_5_years"`
	RaceEth       int        `json:"race_eth"`
	FirstDegreeHx int        `json:"first_degree_hx"`
	AgeMenarche   Menarche   `json:"age_menarche"`
	AgeFirstBirth FirstBirth `json:"age_first_birth"`
	BreastDensity Density    `json:"BIRADS_breast_density"`
	CurrentHRT    int        `json:"current_hrt"`
	Menopause     Menopause  `json:"menopaus"`
	BMIGroup      BMIGroup   `json:"bmi_group"`
	BiopsyHx      int        `json:"biophx"`
}

// Vector flattens the record into the feature order declared by Columns.
func (r Record) Vector() []float64 {
	return []float64{
		float64(r.Year),
		float64(r.AgeGroup),
		float64(r.RaceEth),
		float64(r.FirstDegreeHx),
		float64(r.AgeMenarche),
		float64(r.AgeFirstBirth),
		float64(r.BreastDensity),
		float64(r.CurrentHRT),
		float64(r.Menopause),
		float64(r.BMIGroup),
		float64(r.BiopsyHx),
	}
}

// Validate checks every coded field against its declared domain.
func (r Record) Validate() error {
	if r.Year != DefaultYear {
		return fmt.Errorf("%w: year %d", ErrOutOfRange, r.Year)
	}
	if r.AgeGroup < AgeGroupMin || r.AgeGroup > AgeGroupMax {
		return fmt.Errorf("%w: age_group_5_years %d", ErrOutOfRange, r.AgeGroup)
	}
	if r.RaceEth < RaceEthMin || r.RaceEth > RaceEthMax {
		return fmt.Errorf("%w: race_eth %d", ErrOutOfRange, r.RaceEth)
	}
	if r.FirstDegreeHx != 0 && r.FirstDegreeHx != 1 {
		return fmt.Errorf("%w: first_degree_hx %d", ErrOutOfRange, r.FirstDegreeHx)
	}
	if !r.AgeMenarche.Valid() {
		return fmt.Errorf("%w: age_menarche %d", ErrOutOfRange, r.AgeMenarche)
	}
	if !r.AgeFirstBirth.Valid() {
		return fmt.Errorf("%w: age_first_birth %d", ErrOutOfRange, r.AgeFirstBirth)
	}
	if !r.BreastDensity.Valid() {
		return fmt.Errorf("%w: BIRADS_breast_density %d", ErrOutOfRange, r.BreastDensity)
	}
	if r.CurrentHRT != 0 && r.CurrentHRT != 1 {
		return fmt.Errorf("%w: current_hrt %d", ErrOutOfRange, r.CurrentHRT)
	}
	if !r.Menopause.Valid() {
		return fmt.Errorf("%w: menopaus %d", ErrOutOfRange, r.Menopause)
	}
	if !r.BMIGroup.Valid() {
		return fmt.Errorf("%w: bmi_group %d", ErrOutOfRange, r.BMIGroup)
	}
	if r.BiopsyHx != 0 && r.BiopsyHx != 1 {
		return fmt.Errorf("%w: biophx %d", ErrOutOfRange, r.BiopsyHx)
	}
	return nil
}
