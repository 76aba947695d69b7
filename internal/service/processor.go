package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alpr-gate/internal/domain/alpr"
	"alpr-gate/internal/notify"
	"alpr-gate/internal/recognizer"
	"alpr-gate/internal/registry"
)

// Publisher is the optional pub/sub side channel for detection events.
type Publisher interface {
	Publish(ev alpr.Event)
}

// UploadProcessor runs once per completed upload: recognize, look up,
// log, dispatch. Every failure on this path is logged and absorbed here;
// one bad upload must never take the server down or block the next one.
type UploadProcessor struct {
	recognizer recognizer.Recognizer
	registry   *registry.Registry
	webhook    *notify.Webhook
	publisher  Publisher
	log        zerolog.Logger
}

func NewUploadProcessor(
	rec recognizer.Recognizer,
	reg *registry.Registry,
	webhook *notify.Webhook,
	publisher Publisher,
	log zerolog.Logger,
) *UploadProcessor {
	return &UploadProcessor{
		recognizer: rec,
		registry:   reg,
		webhook:    webhook,
		publisher:  publisher,
		log:        log,
	}
}

// Process handles one completed upload. It always returns normally.
func (p *UploadProcessor) Process(ctx context.Context, filePath string) {
	filename := filepath.Base(filePath)

	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("file", filename).Interface("panic", r).Msg("upload processing panicked")
		}
	}()

	if !alpr.IsImage(filename) {
		p.log.Debug().Str("file", filename).Msg("skipping non-image upload")
		return
	}

	log := p.log.With().
		Str("upload_id", uuid.NewString()).
		Str("file", filename).
		Logger()

	readings, err := p.recognizer.Recognize(ctx, filePath)
	if err != nil {
		log.Error().Err(err).Msg("plate recognition failed")
		return
	}

	if len(readings) == 0 {
		log.Info().Msg("no plate detected")
		return
	}

	for _, reading := range readings {
		meta, known := p.registry.Lookup(reading.Text)
		if meta == nil {
			meta = alpr.Metadata{}
		}

		pct := reading.Confidence * 100
		log.Info().
			Str("plate", reading.Text).
			Bool("known", known).
			Str("confidence", fmt.Sprintf("%.1f%%", pct)).
			Msg("plate detected")

		ev := alpr.Event{
			Plate:      reading.Text,
			Confidence: math.Round(pct*100) / 100,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Filename:   filename,
			Known:      known,
			Metadata:   alpr.Metadata{},
		}
		if known {
			ev.Metadata = meta
		}

		if p.webhook.ShouldFire(reading.Text) {
			p.webhook.Dispatch(ctx, ev)
		}
		if p.publisher != nil {
			p.publisher.Publish(ev)
		}
	}
}
