package handlers

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"interiorai/internal/middleware"
)

// Message keys double as the machine-readable error codes.
const (
	msgBadRequest      = "bad_request"
	msgPayloadTooLarge = "payload_too_large"
	msgImageRequired   = "image_required"
	msgGenerationFail  = "generation_failed"
	msgNoProvider      = "no_provider"
	msgVideoFailed     = "video_failed"
	msgHistoryFailed   = "history_failed"
)

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(key, en, tr string) {
		_ = b.SetString(language.English, key, en)
		_ = b.SetString(language.Turkish, key, tr)
	}
	set(msgBadRequest, "invalid request payload", "geçersiz istek gövdesi")
	set(msgPayloadTooLarge, "image is too large", "görsel çok büyük")
	set(msgImageRequired, "image_url is required", "image_url alanı zorunludur")
	set(msgGenerationFail, "the design could not be generated, please try again", "tasarım oluşturulamadı, lütfen tekrar deneyin")
	set(msgNoProvider, "no provider could process the uploaded photo", "yüklenen fotoğraf hiçbir sağlayıcı tarafından işlenemedi")
	set(msgVideoFailed, "the video could not be generated", "video oluşturulamadı")
	set(msgHistoryFailed, "design history is unavailable", "tasarım geçmişi şu anda kullanılamıyor")
	return b
}()

func localize(ctx context.Context, key string) string {
	p := message.NewPrinter(middleware.Tag(middleware.LocaleFromContext(ctx)), message.Catalog(messages))
	return p.Sprintf(key)
}
