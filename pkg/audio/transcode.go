// Package audio converts song audio to the output format via ffmpeg.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/beatforge/hero2saber/pkg/logger"
)

// Transcoder shells out to ffmpeg for format conversion.
type Transcoder struct {
	ffmpegPath string
	bitrate    string
}

// NewTranscoder creates a Transcoder using the given ffmpeg binary.
func NewTranscoder(ffmpegPath string) *Transcoder {
	return &Transcoder{ffmpegPath: ffmpegPath, bitrate: "192k"}
}

// Available reports whether the configured ffmpeg binary can be found.
func (t *Transcoder) Available() bool {
	_, err := exec.LookPath(t.ffmpegPath)
	return err == nil
}

// Transcode converts inputPath into outputDir/song.<format> and returns
// the output filename. Supported formats are "ogg" and "wav". When the
// source already has the target extension it is copied verbatim.
func (t *Transcoder) Transcode(inputPath, outputDir, format string) (string, error) {
	format = strings.ToLower(format)
	if format != "ogg" && format != "wav" {
		return "", fmt.Errorf("unsupported audio target format %q (must be ogg or wav)", format)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filename := "song." + format
	outputPath := filepath.Join(outputDir, filename)

	if strings.EqualFold(filepath.Ext(inputPath), "."+format) {
		logger.Debug("audio already in target format, copying",
			logger.String("input", inputPath))
		if err := copyFile(inputPath, outputPath); err != nil {
			return "", err
		}
		return filename, nil
	}

	args := []string{"-y", "-i", inputPath}
	if format == "ogg" {
		args = append(args, "-b:a", t.bitrate)
	}
	args = append(args, outputPath)

	cmd := exec.Command(t.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("transcoding audio",
		logger.String("input", inputPath),
		logger.String("output", outputPath))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg execution failed for %s: %w\nFFmpeg Error: %s",
			inputPath, err, stderr.String())
	}
	return filename, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// CopyCover places the cover image into the map directory under the
// standard name. Returns the filename, or "" when src is empty or the
// copy fails (a map without a cover is still valid).
func CopyCover(src, outputDir string) string {
	if src == "" {
		return ""
	}
	if err := copyFile(src, filepath.Join(outputDir, "cover.jpg")); err != nil {
		logger.Warn("could not copy cover image",
			logger.String("src", src),
			logger.ErrorField(err))
		return ""
	}
	return "cover.jpg"
}
