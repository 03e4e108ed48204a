package songpkg

import (
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/beatforge/hero2saber/pkg/logger"
)

// instrumentKeys are the per-instrument difficulty fields song.ini may
// carry.
var instrumentKeys = []string{
	"diff_guitar", "diff_bass", "diff_drums", "diff_keys",
	"diff_vocals", "diff_band", "diff_ghl_guitar", "diff_ghl_bass", "diff_rhythm",
}

// ParseSongINI reads a song.ini file into Metadata. Files missing the
// [song] section header still parse: their keys land in the default
// section and are read from there instead.
func ParseSongINI(path string) (*Metadata, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read song.ini at %s: %w", path, err)
	}

	section := cfg.Section("song")
	if len(section.Keys()) == 0 {
		logger.Warn("[song] section not found in song.ini, using top-level keys",
			logger.String("path", path))
		section = cfg.Section(ini.DefaultSection)
	}

	meta := &Metadata{
		Name:         "Unknown Song",
		Artist:       "Unknown Artist",
		Difficulties: make(map[string]int),
	}

	if v := section.Key("name").String(); v != "" {
		meta.Name = v
	}
	if v := section.Key("artist").String(); v != "" {
		meta.Artist = v
	}
	meta.Album = section.Key("album").String()
	meta.Genre = section.Key("genre").String()
	meta.Year = section.Key("year").String()
	meta.Charter = section.Key("charter").String()
	if meta.Charter == "" {
		// "frets" is an older tag for the charter
		meta.Charter = section.Key("frets").String()
	}

	meta.PreviewStartMS = parseIntKey(section, "preview_start_time", 0)
	meta.SongLengthMS = parseIntKey(section, "song_length", 0)

	for _, key := range instrumentKeys {
		if !section.HasKey(key) {
			continue
		}
		raw := section.Key(key).String()
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("invalid difficulty value in song.ini",
				logger.String("key", key),
				logger.String("value", raw))
			continue
		}
		meta.Difficulties[key] = n
	}

	return meta, nil
}

// parseIntKey safely parses an integer field, warning on garbage.
func parseIntKey(section *ini.Section, key string, fallback int) int {
	if !section.HasKey(key) {
		return fallback
	}
	raw := section.Key(key).String()
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("could not parse song.ini field as integer",
			logger.String("key", key),
			logger.String("value", raw))
		return fallback
	}
	return n
}
