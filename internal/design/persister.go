package design

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
)

// Collection holds one document per generation.
const Collection = "designs"

const historyLimit = 50

// Persister records generation attempts in a document store. Writes are
// best-effort: failures are logged and never reach the caller. A nil store
// turns every write into a no-op.
type Persister struct {
	store  domain.DocumentStore
	logger *infra.Logger
	now    func() time.Time
}

func NewPersister(store domain.DocumentStore, logger *infra.Logger) *Persister {
	return &Persister{store: store, logger: infra.OrDiscard(logger), now: time.Now}
}

// Enabled reports whether a store is configured.
func (p *Persister) Enabled() bool {
	return p != nil && p.store != nil
}

// RecordStart writes the processing record for id and reports whether it was
// stored.
func (p *Persister) RecordStart(ctx context.Context, id string, req domain.GenerationRequest, rationale string) bool {
	if !p.Enabled() {
		return false
	}
	original := "none"
	if req.HasImage() {
		original = "uploaded"
	}
	err := p.store.Create(ctx, Collection, id, map[string]any{
		"userId":           req.UserID,
		"originalImageUrl": original,
		"style":            string(req.Style),
		"roomType":         string(req.RoomType),
		"scenario":         string(req.Scenario),
		"customPrompt":     req.CustomPrompt,
		"designRationale":  rationale,
		"status":           "processing",
		"createdAt":        p.now().UTC().Format(time.RFC3339Nano),
		"modelUsed":        string(req.Model),
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("design", id).Msg("design: record start failed, continuing")
		return false
	}
	return true
}

// RecordComplete merges the outcome into the record for id.
func (p *Persister) RecordComplete(ctx context.Context, id string, res domain.GenerationResult, seg *domain.SegmentationResult) {
	if !p.Enabled() || id == "" {
		return
	}
	fields := map[string]any{"completedAt": p.now().UTC().Format(time.RFC3339Nano)}
	if res.Success {
		fields["status"] = "completed"
		fields["aiGeneratedImageUrl"] = res.ImageURL
		fields["prompt"] = res.Prompt
		fields["provider"] = res.Provider
	} else {
		fields["status"] = "failed"
		fields["error"] = res.Error
	}
	if res.FallbackError != "" {
		fields["fallbackError"] = res.FallbackError
	}
	if seg != nil && seg.CombinedMask != "" {
		fields["segmentationMask"] = seg.CombinedMask
	}
	if err := p.store.Update(ctx, Collection, id, fields); err != nil {
		p.logger.Warn().Err(err).Str("design", id).Msg("design: record completion failed")
	}
}

// History returns the latest designs of userID, newest first. Guests have no
// history.
func (p *Persister) History(ctx context.Context, userID string) ([]domain.Design, error) {
	if !p.Enabled() || userID == "" || IsGuest(userID) {
		return []domain.Design{}, nil
	}
	docs, err := p.store.FindByField(ctx, Collection, "userId", userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("design: history: %w", err)
	}
	out := make([]domain.Design, 0, len(docs))
	for _, doc := range docs {
		d, err := decodeDesign(doc)
		if err != nil {
			p.logger.Warn().Err(err).Str("design", doc.ID).Msg("design: skipping undecodable record")
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeDesign(doc domain.Document) (domain.Design, error) {
	var d domain.Design
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:           &d,
	})
	if err != nil {
		return d, err
	}
	if err := dec.Decode(doc.Fields); err != nil {
		return d, err
	}
	d.ID = doc.ID
	return d, nil
}

// IsGuest reports whether userID was synthesised for an anonymous caller.
func IsGuest(userID string) bool {
	return strings.HasPrefix(userID, guestPrefix)
}
