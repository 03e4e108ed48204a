// Package api provides the REST API server for hero2saber
package api

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/beatforge/hero2saber/pkg/beatmap"
	"github.com/beatforge/hero2saber/pkg/chart"
	"github.com/beatforge/hero2saber/pkg/config"
	"github.com/beatforge/hero2saber/pkg/converter"
	"github.com/beatforge/hero2saber/pkg/logger"
)

// @title hero2saber API
// @version 1.0
// @description API for converting Clone Hero song packages to Beat Saber maps
// @host localhost:8080
// @BasePath /api/v1

// Server wraps the gin engine with the application configuration.
type Server struct {
	cfg *config.Config
}

// StartServer starts the API server on the specified port
func StartServer(cfg *config.Config, port int) error {
	s := &Server{cfg: cfg}
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", s.handleConvert)
		v1.GET("/tiers", listTiers)
		v1.GET("/layout", listLayout)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "hero2saber",
	})
}

// listTiers godoc
// @Summary List output difficulty tiers
// @Description Returns the fixed difficulty tier ordering of the output format
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/tiers [get]
func listTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tiers": []beatmap.Tier{
			beatmap.TierEasy, beatmap.TierNormal, beatmap.TierHard,
			beatmap.TierExpert, beatmap.TierExpertPlus,
		},
	})
}

// listLayout godoc
// @Summary Show the note layout table
// @Description Returns the MIDI note number to lane/layer/saber translation table
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/layout [get]
func listLayout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"layout": chart.StandardLayout()})
}

// handleConvert godoc
// @Summary Convert a Clone Hero song package
// @Description Upload a song .zip and receive the generated Beat Saber map as a zip
// @Tags convert
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "Clone Hero song .zip"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/convert [post]
func (s *Server) handleConvert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	// Spool the upload to disk so the zip reader can seek it.
	upload, err := os.CreateTemp(s.cfg.TempDir, "hero2saber-upload-*.zip")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer os.Remove(upload.Name())

	if _, err := io.Copy(upload, file); err != nil {
		upload.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	upload.Close()

	// Convert into a per-request output directory.
	outDir, err := os.MkdirTemp(s.cfg.TempDir, "hero2saber-map-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create output directory"})
		return
	}
	defer os.RemoveAll(outDir)

	reqCfg := *s.cfg
	reqCfg.OutputDir = outDir

	conv := converter.New(&reqCfg)
	result, err := conv.ConvertZip(upload.Name())
	if err != nil {
		logger.Error("api conversion failed",
			logger.String("upload", header.Filename),
			logger.ErrorField(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, err := zipDir(result.OutputDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := fmt.Sprintf("%s - %s.zip", result.Artist, result.SongName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputName))
	c.Data(http.StatusOK, "application/zip", data)
}

// zipDir packs the generated map directory into an in-memory zip.
func zipDir(dir string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to package map: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to package map: %w", err)
	}
	return buf.Bytes(), nil
}
