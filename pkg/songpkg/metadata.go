// Package songpkg extracts Clone Hero song packages and parses their
// metadata.
package songpkg

import (
	"os"

	"github.com/beatforge/hero2saber/pkg/logger"
)

// Metadata is everything a conversion needs to know about one extracted
// song package. Produced once here, consumed read-only by the converter.
type Metadata struct {
	Name    string
	Artist  string
	Album   string
	Genre   string
	Year    string
	Charter string

	PreviewStartMS int
	SongLengthMS   int

	// Difficulties maps instrument keys (diff_guitar, diff_drums, ...)
	// to their raw 0-6 difficulty numbers.
	Difficulties map[string]int

	// Resolved asset paths inside the extraction directory. ChartPath is
	// required; AudioPath and CoverPath may be empty.
	ChartPath string
	AudioPath string
	CoverPath string

	tempDir    string
	deleteTemp bool
}

// TempDir returns the extraction directory for this song.
func (m *Metadata) TempDir() string {
	return m.tempDir
}

// Cleanup removes the extraction directory, if configured to.
func (m *Metadata) Cleanup() {
	if m.tempDir == "" || !m.deleteTemp {
		return
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		logger.Warn("failed to clean up temp directory",
			logger.String("dir", m.tempDir),
			logger.ErrorField(err))
		return
	}
	logger.Debug("cleaned up temp directory", logger.String("dir", m.tempDir))
}
