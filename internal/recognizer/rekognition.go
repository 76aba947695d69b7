package recognizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog"

	"alpr-gate/internal/domain/alpr"
)

// defaultPlatePattern accepts 4-10 uppercase alphanumerics after
// whitespace and dots are stripped. Operators with a regional plate
// format set PLATE_PATTERN to something stricter.
const defaultPlatePattern = `^[A-Z0-9][A-Z0-9-]{3,9}$`

type textDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Rekognition runs AWS Rekognition DetectText over the image bytes and
// keeps the text lines that look like a plate.
type Rekognition struct {
	client  textDetector
	pattern *regexp.Regexp
	log     zerolog.Logger
}

func NewRekognition(ctx context.Context, region, pattern string, log zerolog.Logger) (*Rekognition, error) {
	if pattern == "" {
		pattern = defaultPlatePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile plate pattern: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Rekognition{
		client:  rekognition.NewFromConfig(awsCfg),
		pattern: re,
		log:     log,
	}, nil
}

func (r *Rekognition) Recognize(ctx context.Context, imagePath string) ([]alpr.Reading, error) {
	if !alpr.IsImage(imagePath) {
		return nil, nil
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(imagePath), err)
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectText: %w", err)
	}

	return r.extractReadings(out.TextDetections), nil
}

// extractReadings keeps detected text lines matching the plate pattern.
// Rekognition reports confidence as a 0-100 percentage.
func (r *Rekognition) extractReadings(detections []types.TextDetection) []alpr.Reading {
	var readings []alpr.Reading
	for _, td := range detections {
		if td.Type != types.TextTypesLine || td.DetectedText == nil || td.Confidence == nil {
			continue
		}
		text := strings.ToUpper(*td.DetectedText)
		text = strings.ReplaceAll(text, " ", "")
		text = strings.ReplaceAll(text, ".", "")
		if !r.pattern.MatchString(text) {
			r.log.Debug().Str("text", text).Msg("text line does not match plate pattern")
			continue
		}
		readings = append(readings, alpr.Reading{
			Text:       text,
			Confidence: float64(*td.Confidence) / 100,
		})
	}
	return readings
}
