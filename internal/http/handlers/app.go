package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/metrics"
)

const defaultMaxBodyBytes = 15 << 20

// DesignService is the pipeline surface the API exposes.
type DesignService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	GenerateVideo(ctx context.Context, imageURL string) domain.VideoResult
	History(ctx context.Context, userID string) ([]domain.Design, error)
}

// App holds handler dependencies.
type App struct {
	Designs           DesignService
	Logger            *infra.Logger
	Metrics           *metrics.Collector
	GenerationTimeout time.Duration
	MaxBodyBytes      int64
}

func NewApp(designs DesignService, cfg *infra.Config, logger *infra.Logger, m *metrics.Collector) *App {
	app := &App{
		Designs:      designs,
		Logger:       infra.OrDiscard(logger),
		Metrics:      m,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
	if cfg != nil {
		app.GenerationTimeout = cfg.GenerationTimeout
	}
	return app
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// error writes the {error, message} envelope with message translated to the
// request locale.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key string) {
	a.json(w, code, errorResponse{Error: key, Message: localize(r.Context(), key)})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	limit := a.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
