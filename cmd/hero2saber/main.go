// Package main is the entry point for the hero2saber CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beatforge/hero2saber/pkg/api"
	"github.com/beatforge/hero2saber/pkg/config"
	"github.com/beatforge/hero2saber/pkg/converter"
	"github.com/beatforge/hero2saber/pkg/logger"
	"github.com/beatforge/hero2saber/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputDir  string
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hero2saber",
	Short: "Convert Clone Hero song packages to Beat Saber maps",
	Long: `hero2saber converts Clone Hero song packages (.zip with notes.mid,
song.ini and audio) into playable Beat Saber custom maps.

Examples:
  hero2saber convert song.zip
  hero2saber convert song.zip -o ~/BeatSaber/CustomLevels
  hero2saber batch ./songs
  hero2saber tui
  hero2saber serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <song.zip>",
	Short: "Convert one song package",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Convert every song package in a folder",
	Long:  `Converts every .zip in the given directory, continuing past failures.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	convertCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides OUTPUT_DIR)")
	batchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides OUTPUT_DIR)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	logger.Init(logger.Config{Level: logger.LogLevel(cfg.LogLevel), OutputPath: cfg.LogPath})
	return cfg
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	defer logger.Sync()

	conv := converter.New(cfg)
	result, err := conv.ConvertZip(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Converted %s - %s\n", result.Artist, result.SongName)
	fmt.Printf("  BPM:    %.2f\n", result.BPM)
	fmt.Printf("  Tiers:  %d\n", len(result.Tiers))
	fmt.Printf("  Notes:  %d\n", result.NoteCount)
	fmt.Printf("  Output: %s\n", result.OutputDir)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	defer logger.Sync()

	conv := converter.New(cfg)
	items, err := conv.ConvertBatch(args[0])
	if err != nil {
		return err
	}

	var failed int
	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", item.ZipPath, item.Err)
		} else {
			fmt.Printf("OK   %s -> %s\n", item.ZipPath, item.Result.OutputDir)
		}
	}
	fmt.Printf("%d converted, %d failed\n", len(items)-failed, failed)

	if failed == len(items) && len(items) > 0 {
		return fmt.Errorf("all %d conversions failed", failed)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	defer logger.Sync()
	return tui.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	defer logger.Sync()

	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(cfg, serverPort)
}
