package alpr

import (
	"path/filepath"
	"strings"
)

// Metadata is the operator-supplied value attached to a known plate.
// Its shape is user-defined (owner name, access tier, anything JSON).
type Metadata map[string]interface{}

// Reading is one plate recognized in one image by the inference backend.
// Confidence is in [0.0, 1.0]; no bound-checking happens downstream.
type Reading struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Event is the notification payload built per qualifying detection.
// Confidence is a percentage rounded to two decimals. Metadata is
// populated only for known plates and is never nil, so unknown plates
// serialize as an empty object rather than null.
type Event struct {
	Plate      string   `json:"plate"`
	Confidence float64  `json:"confidence"`
	Timestamp  string   `json:"timestamp"`
	Filename   string   `json:"filename"`
	Known      bool     `json:"known"`
	Metadata   Metadata `json:"metadata"`
}

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
}

// IsImage reports whether name has one of the accepted upload image
// extensions. Cameras drop temp files and listings into the same
// directory; anything else is ignored by the processing pipeline.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := imageExts[ext]
	return ok
}
