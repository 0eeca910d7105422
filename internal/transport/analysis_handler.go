package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/domain/entity"
)

// artifactNames имена в URL -> имена выгружаемых изображений.
var artifactNames = map[string]string{
	"original":    app.ArtifactOriginal,
	"thresholded": app.ArtifactThresholded,
	"cleaned":     app.ArtifactCleaned,
}

var errUploadTooLarge = errors.New("upload too large")

// multipartOverhead запас на заголовки multipart сверх размера самого файла.
const multipartOverhead = 64 << 10

type AnalysisHandler struct {
	service        *app.AnalysisService
	defaults       entity.AnalysisParams
	defaultFormat  entity.ExportFormat
	maxUploadBytes int64
}

func NewAnalysisHandler(service *app.AnalysisService, defaults entity.AnalysisParams, format entity.ExportFormat, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		defaults:       defaults,
		defaultFormat:  format,
		maxUploadBytes: maxUploadBytes,
	}
}

// Analyze POST /api/v1/analyze: multipart поле image, query min_size и polarity. Возвращает JSON-сводку.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	out, filename, ok := h.run(c, h.defaultFormat)
	if !ok {
		return
	}

	report := out.Result.Report()
	report.ID = c.GetString(requestIDKey)
	report.Source = filename
	c.JSON(http.StatusOK, report)
}

// AnalyzeArtifact POST /api/v1/analyze/:artifact: возвращает одно изображение
// (original, thresholded, cleaned) в формате из query format.
func (h *AnalysisHandler) AnalyzeArtifact(c *gin.Context) {
	name, ok := artifactNames[c.Param("artifact")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact, use original, thresholded or cleaned"})
		return
	}

	format := h.defaultFormat
	if raw := c.Query("format"); raw != "" {
		f, err := entity.ParseExportFormat(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		format = f
	}

	out, _, ok := h.run(c, format)
	if !ok {
		return
	}

	artifact, _ := out.Artifact(name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename()))
	c.Header("X-Fraction-Before", strconv.FormatFloat(out.Result.FractionBefore, 'f', 6, 64))
	c.Header("X-Fraction-After", strconv.FormatFloat(out.Result.FractionAfter, 'f', 6, 64))
	c.Data(http.StatusOK, artifact.Format.MIME(), artifact.Data)
}

// GetReport GET /api/v1/reports/:id: сводка пакетной задачи из PostgreSQL.
func (h *AnalysisHandler) GetReport(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) run(c *gin.Context, format entity.ExportFormat) (*app.AnalysisOutput, string, bool) {
	params, err := h.params(c)
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}

	data, filename, err := h.readUpload(c)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return nil, "", false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	out, err := h.service.Analyze(c.Request.Context(), data, params, format)
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	return out, filename, true
}

func (h *AnalysisHandler) params(c *gin.Context) (entity.AnalysisParams, error) {
	params := h.defaults

	if raw := c.Query("min_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("%w: min_size must be an integer", entity.ErrInvalidParameter)
		}
		params.MinRegionSize = size
	}
	if raw := c.Query("polarity"); raw != "" {
		polarity, err := entity.ParsePolarity(raw)
		if err != nil {
			return params, err
		}
		params.Polarity = polarity
	}

	return params, params.Validate()
}

func (h *AnalysisHandler) readUpload(c *gin.Context) ([]byte, string, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: limit %d bytes", errUploadTooLarge, h.maxUploadBytes)
		}
		return nil, "", errors.New("no image file provided")
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return nil, "", fmt.Errorf("%w: %d bytes, limit %d", errUploadTooLarge, file.Size, h.maxUploadBytes)
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return data, file.Filename, nil
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrInvalidImage):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidParameter):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrReportNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrNotConfigured):
		status = http.StatusNotImplemented
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
