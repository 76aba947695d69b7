package recognizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"alpr-gate/internal/config"
	"alpr-gate/internal/domain/alpr"
)

// Recognizer extracts license-plate readings from an image on disk.
// Implementations never receive non-image files: they return (nil, nil)
// without invoking the underlying model when the extension is not an
// accepted image type.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]alpr.Reading, error)
}

// New builds the backend selected by configuration.
func New(ctx context.Context, cfg config.RecognizerConfig, log zerolog.Logger) (Recognizer, error) {
	switch cfg.Backend {
	case "openalpr":
		return NewOpenALPR(cfg.OpenALPRBin, cfg.Country, log), nil
	case "rekognition":
		return NewRekognition(ctx, cfg.AWSRegion, cfg.PlatePattern, log)
	default:
		return nil, fmt.Errorf("unknown ALPR backend %q", cfg.Backend)
	}
}
