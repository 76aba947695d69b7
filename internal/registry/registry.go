package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"alpr-gate/internal/domain/alpr"
)

// Registry holds the known-plate map loaded once at startup. Keys are
// stored uppercase so lookups are case-insensitive. The map is never
// mutated after Load, so concurrent readers need no locking.
type Registry struct {
	plates map[string]alpr.Metadata
}

// Load resolves the known-plate source: a file when configured and
// readable, otherwise the inline JSON value, otherwise an empty registry.
// Every failure along the way is logged and non-fatal; the service must
// start with whatever source parses.
func Load(filePath, inline string, log zerolog.Logger) *Registry {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case os.IsNotExist(err):
			log.Warn().Str("path", filePath).Msg("known plates file not found")
		case err != nil:
			log.Error().Err(err).Str("path", filePath).Msg("failed to read known plates file")
		default:
			plates, err := parsePlates(data)
			if err != nil {
				log.Error().Err(err).Str("path", filePath).Msg("failed to load known plates file")
				break
			}
			log.Info().Int("count", len(plates)).Str("path", filePath).Msg("loaded known plates from file")
			return &Registry{plates: plates}
		}
	}

	if inline != "" {
		plates, err := parsePlates([]byte(inline))
		if err != nil {
			log.Error().Err(err).Msg("failed to parse inline known plates")
		} else {
			log.Info().Int("count", len(plates)).Msg("loaded known plates from environment")
			return &Registry{plates: plates}
		}
	}

	return &Registry{plates: map[string]alpr.Metadata{}}
}

// parsePlates decodes a JSON object mapping plate to metadata and
// normalizes the keys to uppercase. Two keys differing only by case are
// a configuration error: the whole source is rejected rather than
// silently picking one of them.
func parsePlates(data []byte) (map[string]alpr.Metadata, error) {
	var raw map[string]alpr.Metadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse known plates: %w", err)
	}

	plates := make(map[string]alpr.Metadata, len(raw))
	for key, meta := range raw {
		normalized := strings.ToUpper(key)
		if _, dup := plates[normalized]; dup {
			return nil, fmt.Errorf("duplicate case-variant plate key %q", key)
		}
		if meta == nil {
			meta = alpr.Metadata{}
		}
		plates[normalized] = meta
	}
	return plates, nil
}

// Lookup reports whether plate is known, comparing case-insensitively.
func (r *Registry) Lookup(plate string) (alpr.Metadata, bool) {
	meta, ok := r.plates[strings.ToUpper(plate)]
	return meta, ok
}

// Len returns the number of known plates.
func (r *Registry) Len() int {
	return len(r.plates)
}
