// Package api exposes a Pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mmuldo/kaleidoscope/extract"
	"github.com/mmuldo/kaleidoscope/match"
	"github.com/mmuldo/kaleidoscope/palette"
	"github.com/mmuldo/kaleidoscope/store"
)

// Pipeline is the part of extract.Pipeline the handler uses.
type Pipeline interface {
	Generate(ctx context.Context, owner extract.Owner, locator string) (match.Result, error)
	Destroy(ctx context.Context, owner extract.Owner) error
	Records(ctx context.Context, owner extract.Owner) ([]store.Row, error)
}

// GenerateRequest is the body of POST /owners/:kind/:id/colors.
type GenerateRequest struct {
	Image string `json:"image" binding:"required"`
}

// RecordResponse is one match record on the wire.
type RecordResponse struct {
	OriginalColor  string  `json:"original_color"`
	ReferenceColor string  `json:"reference_color"`
	Frequency      float64 `json:"frequency"`
	Distance       float64 `json:"distance"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler routes the color endpoints to p.
func NewHandler(p Pipeline, logger hclog.Logger) http.Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", healthCheck)
	owners := r.Group("/owners/:kind/:id")
	owners.POST("/colors", generateColors(p))
	owners.GET("/colors", listColors(p))
	owners.DELETE("/colors", destroyColors(p))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func owner(c *gin.Context) extract.Owner {
	return extract.Owner{Kind: c.Param("kind"), ID: c.Param("id")}
}

func generateColors(p Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if e := c.ShouldBindJSON(&req); e != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: e.Error()})
			return
		}

		res, e := p.Generate(c.Request.Context(), owner(c), req.Image)
		if e != nil {
			writeError(c, e)
			return
		}

		out := make([]RecordResponse, len(res))
		for i, r := range res {
			out[i] = RecordResponse{
				OriginalColor:  r.OriginalHex(),
				ReferenceColor: r.MatchedHex(),
				Frequency:      r.Frequency,
				Distance:       r.Distance,
			}
		}
		c.JSON(http.StatusOK, gin.H{"records": out})
	}
}

func listColors(p Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, e := p.Records(c.Request.Context(), owner(c))
		if e != nil {
			writeError(c, e)
			return
		}

		out := make([]RecordResponse, len(rows))
		for i, r := range rows {
			out[i] = RecordResponse{
				OriginalColor:  r.OriginalColor,
				ReferenceColor: r.ReferenceColor,
				Frequency:      r.Frequency,
				Distance:       r.Distance,
			}
		}
		c.JSON(http.StatusOK, gin.H{"records": out})
	}
}

func destroyColors(p Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		if e := p.Destroy(c.Request.Context(), owner(c)); e != nil {
			writeError(c, e)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeError(c *gin.Context, e error) {
	status, kind := http.StatusInternalServerError, "internal"

	var se *extract.StepError
	switch {
	case errors.Is(e, extract.ErrNoColorsConfigured):
		status, kind = http.StatusUnprocessableEntity, "no_colors_configured"
	case errors.Is(e, palette.ErrInvalidColor):
		status, kind = http.StatusUnprocessableEntity, "invalid_color"
	case errors.Is(e, palette.ErrEmptyPalette):
		status, kind = http.StatusUnprocessableEntity, "empty_palette"
	case errors.Is(e, store.ErrNoStore):
		status, kind = http.StatusNotFound, "unknown_kind"
	case errors.Is(e, context.Canceled), errors.Is(e, context.DeadlineExceeded):
		status, kind = http.StatusServiceUnavailable, "cancelled"
	case errors.As(e, &se) && se.Step == extract.StepFetchHistogram:
		status, kind = http.StatusBadGateway, "image"
	}

	c.JSON(status, ErrorResponse{Error: kind, Message: e.Error()})
}

func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
