package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interiorai/internal/infra"
	"interiorai/internal/prompt"
)

// ErrMissingHuggingFaceKey indicates the tier was built without credentials.
var ErrMissingHuggingFaceKey = errors.New("huggingface: api key is required")

// HuggingFaceOptions configures the instruct-pix2pix tier.
type HuggingFaceOptions struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// MaxImageBytes bounds the response body read into memory.
	MaxImageBytes int64
}

// HuggingFaceTier edits the photo with a single synchronous inference call.
// The response body is the image itself and is returned as a data URI.
type HuggingFaceTier struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *infra.Logger
	maxBytes   int64
}

type pix2pixRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters pix2pixParameters `json:"parameters"`
}

type pix2pixParameters struct {
	Image              string  `json:"image"`
	NumInferenceSteps  int     `json:"num_inference_steps"`
	ImageGuidanceScale float64 `json:"image_guidance_scale"`
	GuidanceScale      float64 `json:"guidance_scale"`
}

func NewHuggingFaceTier(opts HuggingFaceOptions) *HuggingFaceTier {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://router.huggingface.co/hf-inference"
	}
	model := strings.Trim(opts.Model, "/ ")
	if model == "" {
		model = "timbrooks/instruct-pix2pix"
	}
	maxBytes := opts.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &HuggingFaceTier{
		apiKey:     strings.TrimSpace(opts.APIKey),
		endpoint:   baseURL + "/models/" + model,
		httpClient: httpClient,
		logger:     infra.OrDiscard(opts.Logger),
		maxBytes:   maxBytes,
	}
}

func (t *HuggingFaceTier) Label() string { return "HuggingFace" }

func (t *HuggingFaceTier) Available(req Request) bool {
	return t.apiKey != "" && req.HasImage()
}

func (t *HuggingFaceTier) Generate(ctx context.Context, req Request) (Output, error) {
	if t.apiKey == "" {
		return Output{}, ErrMissingHuggingFaceKey
	}
	body, err := json.Marshal(pix2pixRequest{
		Inputs: prompt.Instruction(req.Style),
		Parameters: pix2pixParameters{
			Image:              req.Image,
			NumInferenceSteps:  25,
			ImageGuidanceScale: 1.5,
			GuidanceScale:      7.5,
		},
	})
	if err != nil {
		return Output{}, fmt.Errorf("huggingface: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("huggingface: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/*")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return Output{}, fmt.Errorf("huggingface: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes))
	if err != nil {
		return Output{}, fmt.Errorf("huggingface: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("HF API error: %d", resp.StatusCode)
	}
	if len(raw) == 0 {
		return Output{}, errors.New("huggingface: empty image body")
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(mime, "image/") {
		return Output{}, fmt.Errorf("huggingface: unexpected content type %q", mime)
	}
	t.logger.Debug().Int("bytes", len(raw)).Str("mime", mime).Msg("huggingface: image received")
	return Output{
		URL:      "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw),
		Provider: ProviderHuggingFacePix2Pix,
	}, nil
}
