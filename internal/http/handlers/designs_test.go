package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/middleware"
)

type fakeDesigns struct {
	gotReq   domain.GenerationRequest
	deadline bool
	result   domain.GenerationResult
	video    domain.VideoResult
	gotURL   string
	history  []domain.Design
	histErr  error
	histUser string
}

func (f *fakeDesigns) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	f.gotReq = req
	_, f.deadline = ctx.Deadline()
	return f.result
}

func (f *fakeDesigns) GenerateVideo(ctx context.Context, imageURL string) domain.VideoResult {
	f.gotURL = imageURL
	return f.video
}

func (f *fakeDesigns) History(ctx context.Context, userID string) ([]domain.Design, error) {
	f.histUser = userID
	return f.history, f.histErr
}

func newTestApp(svc DesignService) *App {
	return NewApp(svc, &infra.Config{GenerationTimeout: time.Minute}, nil, nil)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/designs", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.I18N("en", nil)(h).ServeHTTP(rec, req)
	return rec
}

func TestCreateDesignSuccess(t *testing.T) {
	svc := &fakeDesigns{result: domain.GenerationResult{
		Success: true, DesignID: "d1", ImageURL: "https://cdn/out.png", Provider: "replicate-flux",
	}}
	app := newTestApp(svc)

	rec := postJSON(t, app.CreateDesign, `{"image":"data:image/png;base64,AA","style":"industrial","room_type":"kitchen","scenario":"living","model":"flux"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "replicate-flux", got["provider"])
	assert.Equal(t, "https://cdn/out.png", got["imageUrl"])

	assert.Equal(t, domain.StyleIndustrial, svc.gotReq.Style)
	assert.Equal(t, domain.RoomKitchen, svc.gotReq.RoomType)
	assert.Equal(t, domain.ModelFlux, svc.gotReq.Model)
	assert.True(t, svc.deadline, "generation runs under a timeout")
}

func TestCreateDesignDefaultsUnknownEnums(t *testing.T) {
	svc := &fakeDesigns{result: domain.GenerationResult{Success: true}}
	rec := postJSON(t, newTestApp(svc).CreateDesign, `{"style":"baroque","room_type":"garage","scenario":"??","model":"dall-e"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StyleModern, svc.gotReq.Style)
	assert.Equal(t, domain.RoomLivingRoom, svc.gotReq.RoomType)
	assert.Equal(t, domain.ScenarioLiving, svc.gotReq.Scenario)
	assert.Equal(t, domain.ModelFlux, svc.gotReq.Model)
}

func TestCreateDesignHardFailureIsLocalized(t *testing.T) {
	svc := &fakeDesigns{result: domain.GenerationResult{
		Error: "no provider", FallbackError: "Replicate: boom | HuggingFace: HF API error: 503",
		Err: domain.ErrNoProvider,
	}}
	rec := postJSON(t, newTestApp(svc).CreateDesign, `{"image":"data:image/png;base64,AA"}`, map[string]string{"Accept-Language": "tr-TR"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "yüklenen fotoğraf hiçbir sağlayıcı tarafından işlenemedi", got["message"])
	assert.Contains(t, got["fallbackError"], "HuggingFace")
}

func TestCreateDesignOtherFailure(t *testing.T) {
	svc := &fakeDesigns{result: domain.GenerationResult{Error: "context deadline exceeded", Err: context.DeadlineExceeded}}
	rec := postJSON(t, newTestApp(svc).CreateDesign, `{}`, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "the design could not be generated")
}

func TestCreateDesignBadPayload(t *testing.T) {
	svc := &fakeDesigns{}
	rec := postJSON(t, newTestApp(svc).CreateDesign, `{"image":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"bad_request"`)

	app := newTestApp(svc)
	app.MaxBodyBytes = 16
	rec = postJSON(t, app.CreateDesign, `{"image":"`+strings.Repeat("A", 64)+`"}`, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateDesignUsesIdentity(t *testing.T) {
	svc := &fakeDesigns{result: domain.GenerationResult{Success: true}}
	req := httptest.NewRequest(http.MethodPost, "/v1/designs", bytes.NewBufferString(`{}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-7"))
	newTestApp(svc).CreateDesign(httptest.NewRecorder(), req)

	assert.Equal(t, "user-7", svc.gotReq.UserID)
}

func TestCreateVideo(t *testing.T) {
	svc := &fakeDesigns{video: domain.VideoResult{Success: true, VideoURL: "https://cdn/v.mp4"}}
	app := newTestApp(svc)

	rec := postJSON(t, app.CreateVideo, `{"image_url":" https://cdn/room.png "}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn/room.png", svc.gotURL)
	assert.Contains(t, rec.Body.String(), `"videoUrl":"https://cdn/v.mp4"`)

	rec = postJSON(t, app.CreateVideo, `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "image_required")

	svc.video = domain.VideoResult{Error: "svd failed"}
	rec = postJSON(t, app.CreateVideo, `{"image_url":"https://cdn/room.png"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListDesigns(t *testing.T) {
	svc := &fakeDesigns{history: []domain.Design{{ID: "d1", UserID: "user-7", Status: "completed"}}}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/designs", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-7"))
	rec := httptest.NewRecorder()
	app.ListDesigns(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", svc.histUser)
	assert.Contains(t, rec.Body.String(), `"id":"d1"`)

	svc.history = nil
	rec = httptest.NewRecorder()
	app.ListDesigns(rec, httptest.NewRequest(http.MethodGet, "/v1/designs", nil))
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	svc.histErr = errors.New("store down")
	rec = httptest.NewRecorder()
	app.ListDesigns(rec, httptest.NewRequest(http.MethodGet, "/v1/designs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp(nil).Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
