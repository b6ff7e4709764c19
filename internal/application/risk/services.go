package risk

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/bcrisk/internal/domain/risk"
)

// OutputFilename is the fixed batch result name. Downstream tooling from the
// training project expects exactly this file.
const OutputFilename = "unknown_predictions.csv"

// Service implements the prediction use-cases.
// Safe for concurrent use; the classifier is shared read-only.
type Service struct {
	Model      domain.Classifier
	Artifacts  domain.ArtifactStore // optional, nil skips publication
	Clock      Clock
	Log        *zap.Logger
	ResultsDir string
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// PredictCommand carries raw form selections: coded selects arrive as ints,
// label selects arrive as the labels shown on the form.
type PredictCommand struct {
	Year          int    `json:"year"`
	AgeGroup      int    `json:"age_group_5_years"`
	RaceEth       int    `json:"race_eth"`
	FirstDegreeHx int    `json:"first_degree_hx"`
	AgeMenarche   string `json:"age_menarche"`
	AgeFirstBirth string `json:"age_first_birth"`
	BreastDensity int    `json:"BIRADS_breast_density"`
	CurrentHRT    int    `json:"current_hrt"`
	Menopause     string `json:"menopaus"`
	BMIGroup      int    `json:"bmi_group"`
	BiopsyHx      int    `json:"biophx"`
}

type PredictResult struct {
	Record        domain.Record `json:"record"`
	Class         int           `json:"prediction"`
	RiskLabel     string        `json:"risk_label"`
	Probabilities [2]float64    `json:"probabilities"`
	Confidence    float64       `json:"confidence"`
}

type BatchCommand struct {
	Filename string
	Data     io.Reader
}

type BatchResult struct {
	ID          string    `json:"id"`
	Rows        int       `json:"rows"`
	OutputFile  string    `json:"output_file"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// EncodeRecord translates form selections into the fixed-order feature
// record, applying the label lookup tables. Year and age group fall back to
// the form defaults when unset.
func EncodeRecord(cmd PredictCommand) (domain.Record, error) {
	menarche, err := domain.ParseMenarche(cmd.AgeMenarche)
	if err != nil {
		return domain.Record{}, err
	}
	firstBirth, err := domain.ParseFirstBirth(cmd.AgeFirstBirth)
	if err != nil {
		return domain.Record{}, err
	}
	menopause, err := domain.ParseMenopause(cmd.Menopause)
	if err != nil {
		return domain.Record{}, err
	}

	rec := domain.Record{
		Year:          cmd.Year,
		AgeGroup:      cmd.AgeGroup,
		RaceEth:       cmd.RaceEth,
		FirstDegreeHx: cmd.FirstDegreeHx,
		AgeMenarche:   menarche,
		AgeFirstBirth: firstBirth,
		BreastDensity: domain.Density(cmd.BreastDensity),
		CurrentHRT:    cmd.CurrentHRT,
		Menopause:     menopause,
		BMIGroup:      domain.BMIGroup(cmd.BMIGroup),
		BiopsyHx:      cmd.BiopsyHx,
	}
	if rec.Year == 0 {
		rec.Year = domain.DefaultYear
	}
	if rec.AgeGroup == 0 {
		rec.AgeGroup = domain.DefaultAgeGroup
	}
	if err := rec.Validate(); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// PredictOne classifies a single assembled record.
func (s *Service) PredictOne(ctx context.Context, cmd PredictCommand) (PredictResult, error) {
	rec, err := EncodeRecord(cmd)
	if err != nil {
		return PredictResult{}, err
	}

	rows := [][]float64{rec.Vector()}
	classes, err := s.Model.Predict(ctx, rows)
	if err != nil {
		return PredictResult{}, err
	}
	probas, err := s.Model.PredictProba(ctx, rows)
	if err != nil {
		return PredictResult{}, err
	}
	if len(classes) != 1 || len(probas) != 1 {
		return PredictResult{}, fmt.Errorf("classifier returned %d/%d results for one record", len(classes), len(probas))
	}

	p := domain.NewPrediction(classes[0], probas[0])
	s.Log.Info("prediction served",
		zap.Int("class", p.Class),
		zap.Float64("confidence", p.Confidence),
	)

	return PredictResult{
		Record:        rec,
		Class:         p.Class,
		RiskLabel:     p.RiskLabel,
		Probabilities: p.Probabilities,
		Confidence:    p.Confidence,
	}, nil
}

// PredictBatch jalankan prediksi per baris CSV, tulis hasil, upload opsional.
// Every failure on this path surfaces as the one CSV Error class.
func (s *Service) PredictBatch(ctx context.Context, cmd BatchCommand) (BatchResult, error) {
	table, err := readTable(cmd.Data)
	if err != nil {
		return BatchResult{}, csvErr(err)
	}
	matrix, err := table.Matrix()
	if err != nil {
		return BatchResult{}, csvErr(err)
	}

	classes, err := s.Model.Predict(ctx, matrix)
	if err != nil {
		return BatchResult{}, csvErr(err)
	}
	probas, err := s.Model.PredictProba(ctx, matrix)
	if err != nil {
		return BatchResult{}, csvErr(err)
	}
	if err := table.Augment(classes, probas); err != nil {
		return BatchResult{}, csvErr(err)
	}

	outPath := filepath.Join(s.ResultsDir, OutputFilename)
	if err := writeTable(outPath, table); err != nil {
		return BatchResult{}, csvErr(err)
	}

	res := BatchResult{
		ID:          uuid.New().String(),
		Rows:        len(table.Rows),
		OutputFile:  OutputFilename,
		GeneratedAt: s.Clock.Now(),
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("batches/%s/%s", res.ID, OutputFilename)
		url, err := s.Artifacts.Upload(ctx, outPath, key)
		if err != nil {
			// hasil lokal sudah tersimpan, publikasi gagal jangan gagalkan batch
			s.Log.Warn("artifact upload failed",
				zap.String("id", res.ID),
				zap.Error(err),
			)
		} else {
			res.ArtifactURL = url
		}
	}

	s.Log.Info("batch prediction complete",
		zap.String("id", res.ID),
		zap.String("source", cmd.Filename),
		zap.Int("rows", res.Rows),
	)
	return res, nil
}

func csvErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrCSV, err)
}

func readTable(r io.Reader) (*domain.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("file has no data rows")
	}
	return &domain.Table{Columns: records[0], Rows: records[1:]}, nil
}

func writeTable(path string, t *domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	return w.WriteAll(t.Rows)
}
