package server

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vdbe/maze-lvl-maker/internal/library"
	"github.com/vdbe/maze-lvl-maker/internal/models"
	"github.com/vdbe/maze-lvl-maker/internal/render"
	"github.com/vdbe/maze-lvl-maker/internal/scan"
)

// levelSummary is the JSON shape of a library row.
type levelSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Source       string    `json:"source,omitempty"`
	Checksum     string    `json:"checksum"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Walls        int       `json:"walls"`
	Checkpoints  int       `json:"checkpoints"`
	PublishedTag string    `json:"published_tag,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func summarize(rec *models.Level) levelSummary {
	return levelSummary{
		ID:           rec.ID,
		Name:         rec.Name,
		Source:       rec.Source,
		Checksum:     rec.Checksum,
		Width:        rec.Width,
		Height:       rec.Height,
		Walls:        rec.WallCount,
		Checkpoints:  rec.CheckpointCount,
		PublishedTag: rec.PublishedTag,
		CreatedAt:    rec.CreatedAt,
	}
}

// newRouter sets up all API routes on a fresh Gin router.
func newRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", handleHealth(db))

	api := router.Group("/api")
	api.GET("/levels", handleListLevels(db))
	api.POST("/levels", handleCreateLevel(db))
	api.GET("/levels/:id", handleShowLevel(db))
	api.DELETE("/levels/:id", handleDeleteLevel(db))
	api.GET("/levels/:id/image", handleLevelImage(db))

	return router
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, library.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := library.Count(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "levels": n})
	}
}

func handleListLevels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := library.ListFilters{Name: c.Query("name")}
		if v, ok := c.GetQuery("published"); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad published value %q", v)})
				return
			}
			filters.Published = &b
		}

		recs, err := library.List(db, filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]levelSummary, 0, len(recs))
		for i := range recs {
			out = append(out, summarize(&recs[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleCreateLevel ingests a maze image uploaded as the multipart field
// "image". An optional "name" field overrides the name derived from the
// file name.
func handleCreateLevel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": `multipart field "image" is required`})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("open upload: %v", err)})
			return
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("decode image: %v", err)})
			return
		}
		lvl, err := scan.Image(c.Request.Context(), img)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := lvl.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			base := filepath.Base(fh.Filename)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if name == "" || name == "." {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level name is required"})
			return
		}

		rec, created, err := library.Save(db, library.SaveOpts{
			Name:   name,
			Source: "upload:" + fh.Filename,
			Level:  lvl,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !created {
			c.JSON(http.StatusConflict, gin.H{"error": "level already in library", "id": rec.ID})
			return
		}
		c.JSON(http.StatusCreated, summarize(rec))
	}
}

// handleShowLevel serves the stored level JSON payload.
func handleShowLevel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := library.Get(db, c.Param("id"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(rec.Payload))
	}
}

func handleDeleteLevel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := library.Delete(db, c.Param("id"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": rec.ID, "name": rec.Name})
	}
}

// handleLevelImage renders the stored level back into a maze PNG. The
// optional scale query sets the pixel size of one tile.
func handleLevelImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		scale := 1
		if v, ok := c.GetQuery("scale"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 64 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad scale value %q", v)})
				return
			}
			scale = n
		}

		rec, err := library.Get(db, c.Param("id"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		lvl, err := library.Data(rec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := render.PNG(c.Writer, lvl, scale); err != nil {
			// Status and headers are already written.
			c.Error(err)
		}
	}
}
