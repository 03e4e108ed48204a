package songpkg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/beatforge/hero2saber/pkg/logger"
)

var (
	// ErrBadArchive marks a song package that is not a readable zip.
	ErrBadArchive = errors.New("not a valid song package archive")
	// ErrNoSongINI marks a package without a song.ini anywhere.
	ErrNoSongINI = errors.New("song.ini not found in package")
	// ErrNoChart marks a package without a notes.mid chart.
	ErrNoChart = errors.New("notes.mid not found in package")
)

// Audio formats in preference order; .opus first because Clone Hero
// packages commonly ship it.
var audioExtensions = []string{".opus", ".ogg", ".wav", ".mp3"}

// Cover filenames in preference order.
var coverNames = []string{"album.jpg", "album.png", "cover.jpg", "cover.png"}

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// Load extracts a song package zip into a fresh temp directory under
// tempRoot and resolves its metadata and asset paths. The caller owns
// the returned Metadata and must Cleanup() it when done.
func Load(zipPath, tempRoot string, deleteTemp bool) (*Metadata, error) {
	dir := filepath.Join(tempRoot, "hero2saber-"+uuid.New().String())
	if err := extractZip(zipPath, dir); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	logger.Debug("extracted song package",
		logger.String("zip", zipPath),
		logger.String("dir", dir))

	iniPath := findFile(dir, "song.ini")
	if iniPath == "" {
		os.RemoveAll(dir)
		return nil, ErrNoSongINI
	}

	meta, err := ParseSongINI(iniPath)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	meta.tempDir = dir
	meta.deleteTemp = deleteTemp

	meta.ChartPath = findFile(dir, "notes.mid")
	if meta.ChartPath == "" {
		meta.Cleanup()
		return nil, ErrNoChart
	}

	meta.AudioPath = findAudioFile(dir)
	if meta.AudioPath == "" {
		logger.Warn("no supported audio file found in package", logger.String("zip", zipPath))
	}
	meta.CoverPath = findCoverImage(dir)
	if meta.CoverPath == "" {
		logger.Warn("no cover image found in package", logger.String("zip", zipPath))
	}

	return meta, nil
}

// extractZip unpacks the archive into dest, refusing entries that would
// escape it.
func extractZip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadArchive, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%w: entry %q escapes extraction directory", ErrBadArchive, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadArchive, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}

// findFile walks the extraction directory for an exact filename, which
// may be nested one or more folders deep.
func findFile(root, name string) string {
	var found string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return fs.SkipAll
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), name) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// findByExtension returns the first file whose lowercase name ends with
// any of the given extensions.
func findByExtension(root string, exts []string) string {
	var found string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return fs.SkipAll
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(d.Name())
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				found = path
				return fs.SkipAll
			}
		}
		return nil
	})
	return found
}

// findAudioFile prefers the conventional song.<ext> names, then falls
// back to any file with a supported audio extension.
func findAudioFile(root string) string {
	for _, ext := range audioExtensions {
		if p := findFile(root, "song"+ext); p != "" {
			return p
		}
	}
	return findByExtension(root, audioExtensions)
}

// findCoverImage prefers the conventional album/cover names, then any
// image file.
func findCoverImage(root string) string {
	for _, name := range coverNames {
		if p := findFile(root, name); p != "" {
			return p
		}
	}
	return findByExtension(root, imageExtensions)
}
