package beatmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists generated records. The assembler only sees this
// interface, so tests can substitute a failing or in-memory
// implementation.
type Writer interface {
	WriteDifficulty(filename string, dat *DifficultyDat) error
	WriteInfo(dat *InfoDat) error
}

// DirWriter writes records as indented JSON files into a map directory.
type DirWriter struct {
	Dir string
}

// NewDirWriter creates the map directory if needed.
func NewDirWriter(dir string) (*DirWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create map directory %s: %w", dir, err)
	}
	return &DirWriter{Dir: dir}, nil
}

func (w *DirWriter) writeJSON(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	path := filepath.Join(w.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteDifficulty writes one tier's .dat file.
func (w *DirWriter) WriteDifficulty(filename string, dat *DifficultyDat) error {
	return w.writeJSON(filename, dat)
}

// WriteInfo writes info.dat.
func (w *DirWriter) WriteInfo(dat *InfoDat) error {
	return w.writeJSON("info.dat", dat)
}
