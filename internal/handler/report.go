package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"process-report/internal/form"
	"process-report/internal/logger"
	"process-report/internal/model"
	"process-report/internal/pdf"
	"process-report/internal/service"
	"process-report/internal/storage"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	orch     *service.Orchestrator
	exporter *pdf.Exporter
}

func NewReportHandler(orch *service.Orchestrator, exporter *pdf.Exporter) *ReportHandler {
	return &ReportHandler{orch: orch, exporter: exporter}
}

// POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var in model.ProcessInput
	if err := c.ShouldBindJSON(&in); err != nil || !form.Valid(in) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: form.ErrValidationBlocked.Error()})
		return
	}

	entry, err := h.orch.Submit(c.Request.Context(), in)
	if status, msg := submitStatus(err); status != http.StatusOK {
		c.JSON(status, model.ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, model.GenerateResponse{ID: entry.ID, Report: entry.Report})
}

// submitStatus maps a Submit error to a response. A history write failure
// still counts as success: the report was generated and is current.
func submitStatus(err error) (int, string) {
	var we *storage.WriteError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, service.ErrGenerationInFlight):
		return http.StatusConflict, err.Error()
	case errors.As(err, &we):
		return http.StatusOK, ""
	default:
		return http.StatusBadGateway, service.FailureMessage
	}
}

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func newSSE(c *gin.Context) *sseWriter {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	return &sseWriter{w: c.Writer, f: c.Writer}
}

func (s *sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}

func (s *sseWriter) done() {
	s.event("done", map[string]string{})
}

// POST /api/reports/stream
func (h *ReportHandler) Stream(c *gin.Context) {
	var in model.ProcessInput
	if err := c.ShouldBindJSON(&in); err != nil || !form.Valid(in) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: form.ErrValidationBlocked.Error()})
		return
	}

	sse := newSSE(c)
	sse.event("status", map[string]string{"status": "generating", "processName": in.ProcessName})

	entry, err := h.orch.Submit(c.Request.Context(), in)
	if status, msg := submitStatus(err); status != http.StatusOK {
		sse.event("error", model.ErrorResponse{Error: msg})
	} else {
		sse.event("result", model.GenerateResponse{ID: entry.ID, Report: entry.Report})
	}
	sse.done()
}

// GET /api/state
func (h *ReportHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.State())
}

// GET /api/events streams a state snapshot on connect and after every change.
func (h *ReportHandler) Events(c *gin.Context) {
	ch, cancel := h.orch.Subscribe()
	defer cancel()

	sse := newSSE(c)
	sse.event("state", h.orch.State())

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-ch:
			sse.event("state", st)
		}
	}
}

// GET /api/reports/current/pdf
func (h *ReportHandler) CurrentPDF(c *gin.Context) {
	st := h.orch.State()
	if st.CurrentReport == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "no report to export"})
		return
	}
	sendPDF(c, h.exporter, *st.CurrentReport, true)
}

// GET /api/history/:id/pdf
func (h *ReportHandler) HistoryPDF(c *gin.Context) {
	entry, ok := findEntry(h.orch, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: service.ErrHistoryNotFound.Error()})
		return
	}
	sendPDF(c, h.exporter, entry.Report, true)
}

// sendPDF renders r fully before writing any of the response.
func sendPDF(c *gin.Context, exporter *pdf.Exporter, r model.Report, asJSON bool) {
	var buf bytes.Buffer
	if err := exporter.Render(r, &buf); err != nil {
		status, msg := http.StatusInternalServerError, "Failed to export the PDF."
		var ue *pdf.RendererUnavailableError
		if errors.As(err, &ue) {
			status, msg = http.StatusServiceUnavailable, pdf.UnavailableNotice
		} else {
			logger.Error("pdf.export.failed", "process", r.ProcessName, "err", err)
		}
		if asJSON {
			c.JSON(status, model.ErrorResponse{Error: msg})
		} else {
			c.String(status, msg)
		}
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.FileName(r.ProcessName)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func findEntry(orch *service.Orchestrator, id string) (model.HistoryEntry, bool) {
	for _, e := range orch.History() {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}
