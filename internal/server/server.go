package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fieldlog/geoverify/internal/config"
	"github.com/fieldlog/geoverify/internal/export"
	"github.com/fieldlog/geoverify/internal/geo"
	"github.com/fieldlog/geoverify/internal/input"
	"github.com/fieldlog/geoverify/internal/pipeline"
	"github.com/fieldlog/geoverify/internal/registry"
)

// 32 MiB cap for multipart uploads; survey exports are far smaller.
const maxUploadBytes = 32 << 20

// Server exposes the verification pipeline over HTTP: clients upload an
// export file (and optionally a site file) and get the report workbook back.
type Server struct {
	cfg     *config.Config
	sites   *registry.Registry
	limiter *rate.Limiter
}

// New builds a Server around the configured site registry. The registry may
// be overridden per request by uploading a "sites" file.
func New(cfg *config.Config, sites *registry.Registry) *Server {
	return &Server{
		cfg:     cfg,
		sites:   sites,
		limiter: rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst),
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Post("/verify", s.handleVerify)
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleVerify runs an uploaded export through the pipeline and streams the
// report workbook back as an attachment.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name, data, err := formFile(r, "export")
	if err != nil {
		writeError(w, http.StatusBadRequest, `"export" file is required`)
		return
	}

	sites := s.sites
	if sitesName, sitesData, err := formFile(r, "sites"); err == nil {
		sites, err = registry.LoadBytes(sitesName, sitesData)
		if err != nil {
			zap.L().Warn("uploaded site file rejected", zap.String("file", sitesName), zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid sites file")
			return
		}
	}
	if sites == nil || sites.Len() == 0 {
		writeError(w, http.StatusBadRequest, "no site registry configured; upload a sites file")
		return
	}

	table, err := input.ReadTableBytes(name, data)
	if err != nil {
		zap.L().Warn("uploaded export rejected", zap.String("file", name), zap.Error(err))
		writeError(w, http.StatusBadRequest, "could not read export file")
		return
	}
	rows, err := input.Parse(table, s.cfg.Input.Columns)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	thresholds := geo.Thresholds{
		VerifiedMaxMeters: s.cfg.Verify.VerifiedMaxMeters,
		ReviewMaxMeters:   s.cfg.Verify.ReviewMaxMeters,
	}
	res := pipeline.New(sites, thresholds, s.cfg.Verify.ConsentAccepted).Run(rows)

	workbook, err := export.WorkbookBytes(pipeline.BuildTables(res))
	if err != nil {
		zap.L().Error("workbook serialization failed", zap.String("run_id", res.RunID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	zap.L().Info("verify request served",
		zap.String("run_id", res.RunID),
		zap.String("file", name),
		zap.Int("records", len(res.Log)),
		zap.Int("filtered", res.FilteredRows),
	)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="geoverify_%s.xlsx"`, res.RunID))
	w.Header().Set("X-Run-ID", res.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(workbook)
}

func formFile(r *http.Request, field string) (string, []byte, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, data, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
