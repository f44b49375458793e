package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"interiorai/internal/domain"
	"interiorai/internal/middleware"
)

type createDesignRequest struct {
	Image        string `json:"image"`
	Style        string `json:"style"`
	RoomType     string `json:"room_type"`
	Scenario     string `json:"scenario"`
	CustomPrompt string `json:"custom_prompt"`
	Model        string `json:"model"`
}

type designResponse struct {
	domain.GenerationResult
	Message string `json:"message,omitempty"`
}

// CreateDesign runs the redesign pipeline synchronously. A photo that no
// provider could process is reported as 422; any other failure as 502.
func (a *App) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var body createDesignRequest
	if err := a.decode(w, r, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, r, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
			return
		}
		a.error(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}

	req := domain.GenerationRequest{
		UserID:       middleware.UserIDFromContext(r.Context()),
		Image:        strings.TrimSpace(body.Image),
		Style:        domain.ParseStyle(body.Style),
		RoomType:     domain.ParseRoomType(body.RoomType),
		Scenario:     domain.ParseScenario(body.Scenario),
		CustomPrompt: body.CustomPrompt,
		Model:        domain.ParseModelChoice(body.Model),
	}

	ctx, cancel := a.generationContext(r.Context())
	defer cancel()
	res := a.Designs.Generate(ctx, req)

	if res.Success {
		a.json(w, http.StatusOK, designResponse{GenerationResult: res})
		return
	}
	code, key := http.StatusBadGateway, msgGenerationFail
	if errors.Is(res.Err, domain.ErrNoProvider) && req.HasImage() {
		code, key = http.StatusUnprocessableEntity, msgNoProvider
	}
	a.Logger.Warn().Str("request_id", middleware.RequestIDFromContext(r.Context())).Str("error", res.Error).Int("status", code).Msg("handlers: design failed")
	a.json(w, code, designResponse{GenerationResult: res, Message: localize(r.Context(), key)})
}

type createVideoRequest struct {
	ImageURL string `json:"image_url"`
}

type videoResponse struct {
	domain.VideoResult
	Message string `json:"message,omitempty"`
}

// CreateVideo animates a finished design image.
func (a *App) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var body createVideoRequest
	if err := a.decode(w, r, &body); err != nil {
		a.error(w, r, http.StatusBadRequest, msgBadRequest)
		return
	}
	if strings.TrimSpace(body.ImageURL) == "" {
		a.error(w, r, http.StatusBadRequest, msgImageRequired)
		return
	}

	ctx, cancel := a.generationContext(r.Context())
	defer cancel()
	res := a.Designs.GenerateVideo(ctx, strings.TrimSpace(body.ImageURL))
	if !res.Success {
		a.json(w, http.StatusBadGateway, videoResponse{VideoResult: res, Message: localize(r.Context(), msgVideoFailed)})
		return
	}
	a.json(w, http.StatusOK, videoResponse{VideoResult: res})
}

// ListDesigns returns the caller's design history. Anonymous callers get an
// empty list.
func (a *App) ListDesigns(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	designs, err := a.Designs.History(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user", userID).Msg("handlers: history failed")
		a.error(w, r, http.StatusServiceUnavailable, msgHistoryFailed)
		return
	}
	if designs == nil {
		designs = []domain.Design{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": designs})
}

func (a *App) generationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.GenerationTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.GenerationTimeout)
}
