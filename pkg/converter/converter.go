// Package converter orchestrates the conversion of Clone Hero song
// packages into Beat Saber maps.
package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beatforge/hero2saber/pkg/audio"
	"github.com/beatforge/hero2saber/pkg/beatmap"
	"github.com/beatforge/hero2saber/pkg/chart"
	"github.com/beatforge/hero2saber/pkg/config"
	"github.com/beatforge/hero2saber/pkg/logger"
	"github.com/beatforge/hero2saber/pkg/songpkg"
)

// ErrNoAudio marks a song package without any usable audio file.
var ErrNoAudio = errors.New("no audio file available for conversion")

// Result summarizes one successful (or partially successful) conversion.
type Result struct {
	SongName      string
	Artist        string
	BPM           float64
	OutputDir     string
	AudioFilename string
	CoverFilename string
	Tiers         []beatmap.Tier
	NoteCount     int
}

// BatchItem is one song's outcome within a batch run.
type BatchItem struct {
	ZipPath string
	Result  *Result
	Err     error
}

// Converter runs the conversion pipeline. Each call owns its tempo map
// and note lists, so independent conversions may run concurrently.
type Converter struct {
	cfg        *config.Config
	layout     chart.Layout
	transcoder *audio.Transcoder
}

// New creates a Converter with the standard note layout.
func New(cfg *config.Config) *Converter {
	return &Converter{
		cfg:        cfg,
		layout:     chart.StandardLayout(),
		transcoder: audio.NewTranscoder(cfg.FFmpegPath),
	}
}

// Layout returns the active note layout.
func (c *Converter) Layout() chart.Layout {
	return c.layout
}

// SetLayout replaces the note layout used for subsequent conversions.
func (c *Converter) SetLayout(layout chart.Layout) {
	c.layout = layout
}

// ConvertZip extracts a song package and converts it. The extraction
// directory is cleaned up before returning.
func (c *Converter) ConvertZip(zipPath string) (*Result, error) {
	meta, err := songpkg.Load(zipPath, c.cfg.TempDir, c.cfg.DeleteTempFiles)
	if err != nil {
		return nil, err
	}
	defer meta.Cleanup()
	return c.ConvertSong(meta)
}

// ConvertSong converts an already extracted song package.
func (c *Converter) ConvertSong(meta *songpkg.Metadata) (*Result, error) {
	logger.Info("starting conversion",
		logger.String("song", meta.Name),
		logger.String("artist", meta.Artist))

	outputDir := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("%s - %s", meta.Artist, meta.Name))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create map directory %s: %w", outputDir, err)
	}

	if meta.AudioPath == "" {
		return nil, ErrNoAudio
	}
	audioFilename, err := c.transcoder.Transcode(meta.AudioPath, outputDir, c.cfg.AudioTargetFormat)
	if err != nil {
		return nil, fmt.Errorf("audio conversion failed: %w", err)
	}

	coverFilename := audio.CopyCover(meta.CoverPath, outputDir)

	s, err := chart.ReadChartFile(meta.ChartPath)
	if err != nil {
		return nil, err
	}

	tempoMap := chart.BuildTempoMap(s)
	bpm := tempoMap.DominantBPM()
	raw := chart.CollectNotes(s, tempoMap, c.layout, bpm)

	info := beatmap.NewInfoDat(beatmap.SongInfo{
		Name:           meta.Name,
		Artist:         meta.Artist,
		Album:          meta.Album,
		Charter:        meta.Charter,
		PreviewStartMS: meta.PreviewStartMS,
	}, audioFilename, coverFilename, bpm)

	writer, err := beatmap.NewDirWriter(outputDir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SongName:      meta.Name,
		Artist:        meta.Artist,
		BPM:           bpm,
		OutputDir:     outputDir,
		AudioFilename: audioFilename,
		CoverFilename: coverFilename,
	}

	if len(raw) == 0 {
		// Nothing mappable: still emit info.dat so the directory is a
		// recognizable (if empty) map.
		logger.Warn("no mappable notes found in chart",
			logger.String("song", meta.Name))
		if err := writer.WriteInfo(info); err != nil {
			return nil, err
		}
		return result, nil
	}

	tiers := beatmap.SelectTiers(meta.Difficulties, c.cfg.DifficultyMap)
	notes := chart.FinalizeNotes(raw)

	if err := beatmap.Assemble(info, tiers, notes, writer); err != nil {
		var partial *beatmap.PartialWriteError
		if errors.As(err, &partial) {
			result.Tiers = partial.Written
		}
		return result, err
	}

	result.Tiers = tiers
	result.NoteCount = len(notes)

	logger.Info("conversion complete",
		logger.String("song", meta.Name),
		logger.Int("tiers", len(tiers)),
		logger.Int("notes", len(notes)))
	return result, nil
}

// ConvertBatch converts every .zip in dir, continuing past per-song
// failures. Items come back in filename order.
func (c *Converter) ConvertBatch(dir string) ([]BatchItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch directory %s: %w", dir, err)
	}

	var zips []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			zips = append(zips, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(zips)

	items := make([]BatchItem, 0, len(zips))
	for _, zipPath := range zips {
		res, err := c.ConvertZip(zipPath)
		if err != nil {
			logger.Error("song conversion failed",
				logger.String("zip", zipPath),
				logger.ErrorField(err))
		}
		items = append(items, BatchItem{ZipPath: zipPath, Result: res, Err: err})
	}
	return items, nil
}
