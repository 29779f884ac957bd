package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"process-report/internal/form"
	"process-report/internal/logger"
	"process-report/internal/model"
	"process-report/internal/pdf"
	"process-report/internal/render"
	"process-report/internal/service"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the server-rendered workspace. Every action redirects
// back to GET /.
type PageHandler struct {
	orch     *service.Orchestrator
	form     *form.Controller
	exporter *pdf.Exporter
	html     *render.HTML
	auth     bool
}

func NewPageHandler(orch *service.Orchestrator, fc *form.Controller, exporter *pdf.Exporter, html *render.HTML, authEnabled bool) *PageHandler {
	return &PageHandler{orch: orch, form: fc, exporter: exporter, html: html, auth: authEnabled}
}

// GET /
func (h *PageHandler) Index(c *gin.Context) {
	st := h.orch.State()
	data := render.PageData{
		Draft:        h.form.Draft(),
		Disabled:     h.form.Disabled(),
		IsGenerating: st.IsGenerating,
		Error:        st.Error,
		History:      h.orch.History(),
		CurrentID:    st.CurrentReportID,
		AuthEnabled:  h.auth,
	}
	if st.CurrentReport != nil {
		data.Report = render.NewReportView(*st.CurrentReport, "/download")
	}

	var buf bytes.Buffer
	if err := h.html.Page(&buf, data); err != nil {
		logger.Error("html.page.failed", "err", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// POST /generate starts a generation in the background. The page shows the
// loader until the state stream reports it finished.
func (h *PageHandler) Generate(c *gin.Context) {
	var in model.ProcessInput
	if err := c.ShouldBind(&in); err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.form.Update(in)

	ctx := context.WithoutCancel(c.Request.Context())
	err := h.form.Submit(ctx, func(ctx context.Context, in model.ProcessInput) error {
		_, err := h.orch.Start(ctx, in)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, form.ErrValidationBlocked):
	case errors.Is(err, form.ErrFormDisabled), errors.Is(err, service.ErrGenerationInFlight):
		logger.Info("report.generate.ignored", "reason", err.Error())
	default:
		logger.Error("report.generate.start_failed", "err", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /history/:id/select
func (h *PageHandler) Select(c *gin.Context) {
	if _, err := h.orch.SelectHistory(c.Param("id")); err != nil {
		logger.Warn("history.select.failed", "id", c.Param("id"), "err", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /history/clear
func (h *PageHandler) Clear(c *gin.Context) {
	h.orch.ClearHistory(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/")
}

// GET /download
func (h *PageHandler) Download(c *gin.Context) {
	st := h.orch.State()
	if st.CurrentReport == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	sendPDF(c, h.exporter, *st.CurrentReport, false)
}
