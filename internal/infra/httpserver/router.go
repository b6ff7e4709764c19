package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apprisk "github.com/bryanwahyu/bcrisk/internal/application/risk"
	domain "github.com/bryanwahyu/bcrisk/internal/domain/risk"
	"github.com/bryanwahyu/bcrisk/internal/middleware"
)

type Router struct {
	svc *apprisk.Service
	log *zap.Logger
}

func NewRouter(svc *apprisk.Service, log *zap.Logger) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(60, 20))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"model":       &middleware.ClassifierHealthChecker{Model: svc.Model},
		"results_dir": &middleware.ResultsDirChecker{Dir: svc.ResultsDir},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/", r.wrap(r.handleIndex))
	mux.Post("/predict", r.wrap(r.handlePredict))
	mux.Post("/predict/csv", r.wrap(r.handlePredictCSV))
	mux.Get("/download/"+apprisk.OutputFilename, r.wrap(r.handleDownload))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

var errBadRequest = errors.New("invalid request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrCSV):
				middleware.IncrementBatchesFailed()
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, errBadRequest),
				errors.Is(err, domain.ErrUnknownLabel),
				errors.Is(err, domain.ErrOutOfRange):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, os.ErrNotExist):
				http.Error(w, "no predictions generated yet", http.StatusNotFound)
			default:
				r.log.Error("handler error",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Error(err),
				)
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return indexTmpl.Execute(w, newIndexPage())
}

// POST /predict
// Body: JSON atau form-urlencoded, nama field sama dengan nama kolom
func (r *Router) handlePredict(w http.ResponseWriter, req *http.Request) error {
	cmd, err := decodePredictCommand(req)
	if err != nil {
		return badRequest(err)
	}

	res, err := r.svc.PredictOne(req.Context(), cmd)
	if err != nil {
		return err
	}
	middleware.IncrementPredictions()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(newPredictResponse(res))
}

// POST /predict/csv (multipart, field "file")
func (r *Router) handlePredictCSV(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, middleware.MaxUploadBytes)
	if err := req.ParseMultipartForm(middleware.MaxUploadBytes); err != nil {
		return badRequest(err)
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest(fmt.Errorf("missing file field: %v", err))
	}
	defer file.Close()

	name := middleware.SanitizeString(header.Filename)
	if err := middleware.ValidateUploadName(name); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateUploadSize(header.Size); err != nil {
		return badRequest(err)
	}

	res, err := r.svc.PredictBatch(req.Context(), apprisk.BatchCommand{
		Filename: name,
		Data:     file,
	})
	if err != nil {
		return err
	}
	middleware.IncrementBatches()
	middleware.AddBatchRows(res.Rows)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(batchResponse{
		ID:          res.ID,
		Rows:        res.Rows,
		OutputFile:  res.OutputFile,
		DownloadURL: "/download/" + apprisk.OutputFilename,
		ArtifactURL: res.ArtifactURL,
		GeneratedAt: res.GeneratedAt,
	})
}

// GET /download/unknown_predictions.csv
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	path := filepath.Join(r.svc.ResultsDir, apprisk.OutputFilename)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", apprisk.OutputFilename))
	http.ServeFile(w, req, path)
	return nil
}

func decodePredictCommand(req *http.Request) (apprisk.PredictCommand, error) {
	var cmd apprisk.PredictCommand

	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
			return cmd, err
		}
		return cmd, nil
	}

	if err := req.ParseForm(); err != nil {
		return cmd, err
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"year", &cmd.Year},
		{"age_group_5_years", &cmd.AgeGroup},
		{"race_eth", &cmd.RaceEth},
		{"first_degree_hx", &cmd.FirstDegreeHx},
		{"BIRADS_breast_density", &cmd.BreastDensity},
		{"current_hrt", &cmd.CurrentHRT},
		{"bmi_group", &cmd.BMIGroup},
		{"biophx", &cmd.BiopsyHx},
	} {
		v := req.FormValue(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cmd, fmt.Errorf("field %s: %v", f.name, err)
		}
		*f.dst = n
	}
	cmd.AgeMenarche = req.FormValue("age_menarche")
	cmd.AgeFirstBirth = req.FormValue("age_first_birth")
	cmd.Menopause = req.FormValue("menopaus")
	return cmd, nil
}

type predictResponse struct {
	Record        domain.Record `json:"record"`
	Prediction    int           `json:"prediction"`
	RiskLabel     string        `json:"risk_label"`
	Message       string        `json:"message"`
	Probabilities [2]float64    `json:"probabilities"`
	LowRiskPct    string        `json:"low_risk_probability"`
	HighRiskPct   string        `json:"high_risk_probability"`
	Confidence    string        `json:"confidence"`
}

func newPredictResponse(res apprisk.PredictResult) predictResponse {
	return predictResponse{
		Record:        res.Record,
		Prediction:    res.Class,
		RiskLabel:     res.RiskLabel,
		Message:       res.RiskLabel + " of Breast Cancer",
		Probabilities: res.Probabilities,
		LowRiskPct:    fmt.Sprintf("%.2f%%", res.Probabilities[0]*100),
		HighRiskPct:   fmt.Sprintf("%.2f%%", res.Probabilities[1]*100),
		Confidence:    fmt.Sprintf("%.2f%%", res.Confidence*100),
	}
}

type batchResponse struct {
	ID          string    `json:"id"`
	Rows        int       `json:"rows"`
	OutputFile  string    `json:"output_file"`
	DownloadURL string    `json:"download_url"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
