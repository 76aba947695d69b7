package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"alpr-gate/internal/domain/alpr"
)

// response mirrors the JSON the OpenALPR CLI prints with -j.
type response struct {
	Version        float32  `json:"version"`
	DataType       string   `json:"data_type"`
	EpochTime      float64  `json:"epoch_time"`
	ProcessingTime float64  `json:"processing_time_ms"`
	Results        []result `json:"results"`
}

type result struct {
	Plate           string  `json:"plate"`
	Confidence      float64 `json:"confidence"`
	MatchesTemplate int     `json:"matches_template"`
	PlateIndex      int     `json:"plate_index"`
	Region          string  `json:"region"`
}

type runFunc func(ctx context.Context, bin string, args ...string) ([]byte, error)

// OpenALPR shells out to the alpr CLI once per image and parses its
// JSON output. The CLI reports confidence as a 0-100 percentage.
type OpenALPR struct {
	bin     string
	country string
	log     zerolog.Logger
	run     runFunc
}

func NewOpenALPR(bin, country string, log zerolog.Logger) *OpenALPR {
	return &OpenALPR{
		bin:     bin,
		country: country,
		log:     log,
		run: func(ctx context.Context, bin string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, bin, args...).Output()
		},
	}
}

func (o *OpenALPR) Recognize(ctx context.Context, imagePath string) ([]alpr.Reading, error) {
	if !alpr.IsImage(imagePath) {
		return nil, nil
	}

	out, err := o.run(ctx, o.bin, "-c", o.country, "-j", imagePath)
	if err != nil {
		return nil, fmt.Errorf("run %s on %s: %w", o.bin, filepath.Base(imagePath), err)
	}

	var resp response
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("parse %s output: %w", o.bin, err)
	}
	o.log.Debug().
		Int("results", len(resp.Results)).
		Float64("processing_ms", resp.ProcessingTime).
		Str("file", filepath.Base(imagePath)).
		Msg("alpr finished")

	readings := make([]alpr.Reading, 0, len(resp.Results))
	for _, r := range resp.Results {
		readings = append(readings, alpr.Reading{
			Text:       r.Plate,
			Confidence: r.Confidence / 100,
		})
	}
	return readings, nil
}
