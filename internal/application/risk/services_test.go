package risk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github.com/bryanwahyu/bcrisk/internal/domain/risk"
)

type fakeClassifier struct {
	classes []int
	probas  [][2]float64
	err     error
	gotRows [][]float64
}

func (f *fakeClassifier) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	f.gotRows = rows
	if f.err != nil {
		return nil, f.err
	}
	return f.classes, nil
}

func (f *fakeClassifier) PredictProba(_ context.Context, rows [][]float64) ([][2]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.probas, nil
}

type fakeStore struct {
	url     string
	err     error
	gotPath string
	gotKey  string
}

func (f *fakeStore) Upload(_ context.Context, localPath, key string) (string, error) {
	f.gotPath = localPath
	f.gotKey = key
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(t *testing.T, model domain.Classifier, store domain.ArtifactStore) *Service {
	t.Helper()
	return &Service{
		Model:      model,
		Artifacts:  store,
		Clock:      fixedClock{t: time.Date(2025, 1, 2, 10, 30, 0, 0, time.UTC)},
		Log:        zaptest.NewLogger(t),
		ResultsDir: t.TempDir(),
	}
}

func validCommand() PredictCommand {
	return PredictCommand{
		Year:          2013,
		AgeGroup:      7,
		RaceEth:       1,
		FirstDegreeHx: 0,
		AgeMenarche:   "Normal",
		AgeFirstBirth: "Normal",
		BreastDensity: 2,
		CurrentHRT:    0,
		Menopause:     "Pre",
		BMIGroup:      2,
		BiopsyHx:      0,
	}
}

func TestEncodeRecord(t *testing.T) {
	rec, err := EncodeRecord(validCommand())
	require.NoError(t, err)
	assert.Equal(t, []float64{2013, 7, 1, 0, 2, 2, 2, 0, 1, 2, 0}, rec.Vector())
}

func TestEncodeRecordDefaults(t *testing.T) {
	cmd := validCommand()
	cmd.Year = 0
	cmd.AgeGroup = 0

	rec, err := EncodeRecord(cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultYear, rec.Year)
	assert.Equal(t, domain.DefaultAgeGroup, rec.AgeGroup)
}

func TestEncodeRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PredictCommand)
		wantErr error
	}{
		{"unknown menarche label", func(c *PredictCommand) { c.AgeMenarche = "Soon" }, domain.ErrUnknownLabel},
		{"unknown first birth label", func(c *PredictCommand) { c.AgeFirstBirth = "never" }, domain.ErrUnknownLabel},
		{"lowercase menopause label", func(c *PredictCommand) { c.Menopause = "post" }, domain.ErrUnknownLabel},
		{"race out of range", func(c *PredictCommand) { c.RaceEth = 9 }, domain.ErrOutOfRange},
		{"density out of range", func(c *PredictCommand) { c.BreastDensity = 5 }, domain.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCommand()
			tt.mutate(&cmd)
			_, err := EncodeRecord(cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPredictOne(t *testing.T) {
	model := &fakeClassifier{classes: []int{1}, probas: [][2]float64{{0.2, 0.8}}}
	svc := newService(t, model, nil)

	res, err := svc.PredictOne(context.Background(), validCommand())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Class)
	assert.Equal(t, domain.LabelHighRisk, res.RiskLabel)
	assert.Equal(t, [2]float64{0.2, 0.8}, res.Probabilities)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)

	require.Len(t, model.gotRows, 1)
	assert.Equal(t, []float64{2013, 7, 1, 0, 2, 2, 2, 0, 1, 2, 0}, model.gotRows[0])
}

func TestPredictOneModelError(t *testing.T) {
	model := &fakeClassifier{err: errors.New("boom")}
	svc := newService(t, model, nil)

	_, err := svc.PredictOne(context.Background(), validCommand())
	assert.ErrorContains(t, err, "boom")
}

func TestPredictBatch(t *testing.T) {
	input := strings.Join(domain.Columns, ",") + "\n" +
		"2013,7,1,0,2,2,2,0,1,2,0\n" +
		"2013,9,1,1,1,3,4,1,2,4,1\n"
	model := &fakeClassifier{
		classes: []int{0, 1},
		probas:  [][2]float64{{0.9, 0.1}, {0.25, 0.75}},
	}
	svc := newService(t, model, nil)

	res, err := svc.PredictBatch(context.Background(), BatchCommand{
		Filename: "patients.csv",
		Data:     strings.NewReader(input),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, OutputFilename, res.OutputFile)
	assert.Equal(t, svc.Clock.Now(), res.GeneratedAt)
	assert.Empty(t, res.ArtifactURL)

	require.Len(t, model.gotRows, 2)
	assert.Equal(t, 9.0, model.gotRows[1][1])

	out, err := os.ReadFile(filepath.Join(svc.ResultsDir, OutputFilename))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(domain.Columns, ",")+",prediction,risk_label,confidence", lines[0])
	assert.Equal(t, "2013,7,1,0,2,2,2,0,1,2,0,0,Low Risk,0.9", lines[1])
	assert.Equal(t, "2013,9,1,1,1,3,4,1,2,4,1,1,High Risk,0.75", lines[2])
}

func TestPredictBatchCSVErrors(t *testing.T) {
	header := strings.Join(domain.Columns, ",")
	tests := []struct {
		name  string
		input string
		model *fakeClassifier
	}{
		{
			name:  "malformed csv",
			input: "a,b\n\"unterminated\n",
			model: &fakeClassifier{},
		},
		{
			name:  "header only",
			input: header + "\n",
			model: &fakeClassifier{},
		},
		{
			name:  "non numeric cell",
			input: header + "\n2013,seven,1,0,2,2,2,0,1,2,0\n",
			model: &fakeClassifier{},
		},
		{
			name:  "classifier failure",
			input: header + "\n2013,7,1,0,2,2,2,0,1,2,0\n",
			model: &fakeClassifier{err: errors.New("model exploded")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.model, nil)
			_, err := svc.PredictBatch(context.Background(), BatchCommand{
				Filename: "bad.csv",
				Data:     strings.NewReader(tt.input),
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCSV)
			assert.True(t, strings.HasPrefix(err.Error(), "CSV Error: "), err.Error())
		})
	}
}

func TestPredictBatchPublishesArtifact(t *testing.T) {
	input := strings.Join(domain.Columns, ",") + "\n2013,7,1,0,2,2,2,0,1,2,0\n"
	model := &fakeClassifier{classes: []int{0}, probas: [][2]float64{{0.6, 0.4}}}
	store := &fakeStore{url: "https://minio.local/bcrisk/batches/x/unknown_predictions.csv"}
	svc := newService(t, model, store)

	res, err := svc.PredictBatch(context.Background(), BatchCommand{
		Filename: "patients.csv",
		Data:     strings.NewReader(input),
	})
	require.NoError(t, err)

	assert.Equal(t, store.url, res.ArtifactURL)
	assert.Equal(t, filepath.Join(svc.ResultsDir, OutputFilename), store.gotPath)
	assert.Equal(t, "batches/"+res.ID+"/"+OutputFilename, store.gotKey)
}

func TestPredictBatchUploadFailureKeepsResult(t *testing.T) {
	input := strings.Join(domain.Columns, ",") + "\n2013,7,1,0,2,2,2,0,1,2,0\n"
	model := &fakeClassifier{classes: []int{0}, probas: [][2]float64{{0.6, 0.4}}}
	store := &fakeStore{err: errors.New("minio down")}
	svc := newService(t, model, store)

	res, err := svc.PredictBatch(context.Background(), BatchCommand{
		Filename: "patients.csv",
		Data:     strings.NewReader(input),
	})
	require.NoError(t, err)
	assert.Empty(t, res.ArtifactURL)

	_, statErr := os.Stat(filepath.Join(svc.ResultsDir, OutputFilename))
	assert.NoError(t, statErr)
}
