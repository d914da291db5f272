package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/maxviazov/recent-repos/internal/page"
	"github.com/maxviazov/recent-repos/internal/service"
	"github.com/maxviazov/recent-repos/pkg/response"
)

// maxPageBytes caps POSTed documents.
const maxPageBytes = 4 << 20

const htmlContentType = "text/html; charset=utf-8"

// PageHandler serves enhanced pages. Every request is one pipeline run.
type PageHandler struct {
	svc      service.PageService
	pagesDir string
}

func NewPageHandler(svc service.PageService, pagesDir string) *PageHandler {
	return &PageHandler{svc: svc, pagesDir: pagesDir}
}

func (h *PageHandler) Register(r *gin.RouterGroup) {
	r.POST("/render", h.render)
	r.GET("/pages/:name", h.servePage)
}

func (h *PageHandler) render(c *gin.Context) {
	// one byte past the limit tells an oversized body from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPageBytes+1))
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "unreadable"}}))
		return
	}
	if len(body) > maxPageBytes {
		response.WriteError(c, fmt.Errorf("%w: limit is %d bytes", page.ErrTooLarge, maxPageBytes))
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must not be empty"}}))
		return
	}
	h.enhance(c, bytes.NewReader(body))
}

func (h *PageHandler) servePage(c *gin.Context) {
	f, err := page.Open(h.pagesDir, c.Param("name"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	defer f.Close()
	h.enhance(c, f)
}

func (h *PageHandler) enhance(c *gin.Context, r io.Reader) {
	start := time.Now()
	var buf bytes.Buffer
	rep, err := h.svc.Enhance(c.Request.Context(), r, &buf)

	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("run_id", rep.RunID).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		status, _ := response.MapError(err)
		logger.Error().Err(err).Int("status", status).Msg("page enhancement failed")
		response.WriteError(c, err)
		return
	}

	logger.Info().
		Int("markers", rep.Markers).
		Int("failed", len(rep.Failures)).
		Msg("page enhanced")
	c.Header("X-Run-ID", rep.RunID)
	c.Header("X-Chains-Failed", strconv.Itoa(len(rep.Failures)))
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
