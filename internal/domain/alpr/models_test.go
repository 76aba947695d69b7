package alpr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	accepted := []string{"a.jpg", "b.jpeg", "c.png", "d.bmp", "E.JPG", "f.JpEg", "/uploads/cam1/g.PNG"}
	for _, name := range accepted {
		assert.True(t, IsImage(name), name)
	}

	rejected := []string{"thumbs.db", "upload.tmp", "notes.txt", "archive.jpg.gz", "noext", ".jpg.part"}
	for _, name := range rejected {
		assert.False(t, IsImage(name), name)
	}
}

func TestEventMetadataSerializesAsObject(t *testing.T) {
	ev := Event{
		Plate:    "ABC123",
		Metadata: Metadata{},
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"metadata":{}`)
}
