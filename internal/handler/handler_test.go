package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"process-report/internal/config"
	"process-report/internal/form"
	"process-report/internal/model"
	"process-report/internal/pdf"
	"process-report/internal/render"
	"process-report/internal/service"
	"process-report/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

const reportJSON = `{
  "processName": "ignored",
  "executiveSummary": "summary",
  "processAnalysis": "analysis",
  "bottlenecks": "bottlenecks",
  "optimizationSuggestions": [
    {"suggestion": "s1", "justification": "j1"},
    {"suggestion": "s2", "justification": "j2"},
    {"suggestion": "s3", "justification": "j3"}
  ],
  "recommendedTechnologies": ["MES", "SCADA", "OPC UA", "Digital twin"],
  "conclusion": "conclusion"
}`

// stubGen answers with raw or err. When gate is set it waits for it first.
type stubGen struct {
	raw   string
	err   error
	gate  chan struct{}
	calls atomic.Int32
}

func (g *stubGen) Generate(ctx context.Context, _ model.ProcessInput) (string, error) {
	g.calls.Add(1)
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.raw, g.err
}

type fixture struct {
	router *gin.Engine
	orch   *service.Orchestrator
	gen    *stubGen
}

func newFixture(t *testing.T, gen *stubGen, opts ...func(*Deps)) *fixture {
	t.Helper()
	html, err := render.NewHTML()
	require.NoError(t, err)

	history := service.NewHistoryStore(storage.NewMemoryStore())
	orch := service.NewOrchestrator(gen, history)
	d := Deps{
		Orchestrator: orch,
		Form:         form.NewController(orch.Generating),
		Exporter:     pdf.NewExporter(pdf.NewFpdfSurface),
		Auth:         service.NewAuthService(config.AuthConfig{}),
		HTML:         html,
	}
	for _, o := range opts {
		o(&d)
	}
	return &fixture{router: NewRouter(d), orch: orch, gen: gen}
}

func (f *fixture) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) postForm(path string, vals url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const lineA = `{"processName":"CNC Line A","processDescription":"Three cells and one inspection station."}`

func TestCreateReport(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})

	w := f.do(http.MethodPost, "/api/reports", lineA)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "CNC Line A", resp.Report.ProcessName)
	assert.Len(t, resp.Report.OptimizationSuggestions, 3)
	assert.Len(t, resp.Report.RecommendedTechnologies, 4)

	w = f.do(http.MethodGet, "/api/history", "")
	var list []model.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)
}

func TestCreateReportErrors(t *testing.T) {
	tests := []struct {
		name      string
		gen       *stubGen
		body      string
		want      int
		wantCalls int32
		wantMsg   string
	}{
		{name: "blank description", gen: &stubGen{raw: reportJSON}, body: `{"processName":"A","processDescription":"  "}`, want: http.StatusBadRequest},
		{name: "not json", gen: &stubGen{raw: reportJSON}, body: `nope`, want: http.StatusBadRequest},
		{name: "backend down", gen: &stubGen{err: &service.GenerationError{Provider: "gemini", Cause: errors.New("503")}}, body: lineA, want: http.StatusBadGateway, wantCalls: 1, wantMsg: service.FailureMessage},
		{name: "malformed", gen: &stubGen{raw: "Sorry."}, body: lineA, want: http.StatusBadGateway, wantCalls: 1, wantMsg: service.FailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.gen)
			w := f.do(http.MethodPost, "/api/reports", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.wantCalls, tt.gen.calls.Load())
			if tt.wantMsg != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, w.Body.String())
			}
		})
	}
}

func TestCreateReportWhileGenerating(t *testing.T) {
	gen := &stubGen{raw: reportJSON, gate: make(chan struct{})}
	f := newFixture(t, gen)

	done, err := f.orch.Start(context.Background(), model.ProcessInput{ProcessName: "A", ProcessDescription: "B"})
	require.NoError(t, err)

	w := f.do(http.MethodPost, "/api/reports", lineA)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(gen.gate)
	require.NoError(t, (<-done).Err)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestStreamReport(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})

	w := f.do(http.MethodPost, "/api/reports/stream", lineA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []string
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"status", "result", "done"}, events)
	assert.Contains(t, w.Body.String(), `"processName":"CNC Line A"`)
}

func TestStreamReportFailure(t *testing.T) {
	f := newFixture(t, &stubGen{err: errors.New("boom")})

	w := f.do(http.MethodPost, "/api/reports/stream", lineA)
	body := w.Body.String()
	assert.Contains(t, body, "event: error\ndata: {\"error\":\""+service.FailureMessage+"\"}")
	assert.NotContains(t, body, "boom")
	assert.True(t, strings.HasSuffix(body, "event: done\ndata: {}\n\n"))
}

func TestHistoryAPI(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})
	var first model.GenerateResponse
	require.NoError(t, json.Unmarshal(f.do(http.MethodPost, "/api/reports", lineA).Body.Bytes(), &first))
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/reports", `{"processName":"Paint","processDescription":"d"}`).Code)

	w := f.do(http.MethodPost, "/api/history/"+first.ID+"/select", "")
	require.Equal(t, http.StatusOK, w.Code)

	var st model.State
	require.NoError(t, json.Unmarshal(f.do(http.MethodGet, "/api/state", "").Body.Bytes(), &st))
	assert.Equal(t, first.ID, st.CurrentReportID)
	require.NotNil(t, st.CurrentReport)
	assert.Equal(t, "CNC Line A", st.CurrentReport.ProcessName)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/history/missing/select", "").Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/history", "").Code)
	assert.JSONEq(t, `[]`, f.do(http.MethodGet, "/api/history", "").Body.String())
	assert.JSONEq(t, `{"isGenerating":false}`, f.do(http.MethodGet, "/api/state", "").Body.String())
	assert.Equal(t, int32(2), f.gen.calls.Load())
}

func TestPDFDownload(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/reports/current/pdf", "").Code)

	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal(f.do(http.MethodPost, "/api/reports", lineA).Body.Bytes(), &resp))

	for _, path := range []string{"/api/reports/current/pdf", "/api/history/" + resp.ID + "/pdf", "/download"} {
		w := f.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="report_cnc_line_a.pdf"`, w.Header().Get("Content-Disposition"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	}
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/history/nope/pdf", "").Code)
}

func TestPDFRendererUnavailable(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON}, func(d *Deps) { d.Exporter = pdf.NewExporter(nil) })
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/reports", lineA).Code)

	w := f.do(http.MethodGet, "/api/reports/current/pdf", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"`+pdf.UnavailableNotice+`"}`, w.Body.String())

	w = f.do(http.MethodGet, "/download", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, pdf.UnavailableNotice, w.Body.String())
}

func TestPageFlow(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})

	w := f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the AI Report Generator")

	w = f.postForm("/generate", url.Values{"processName": {"CNC Line A"}, "processDescription": {""}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, int32(0), f.gen.calls.Load(), "blank description blocks submission")

	w = f.postForm("/generate", url.Values{"processName": {"CNC Line A"}, "processDescription": {"Three cells."}, "kpis": {"OEE"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Eventually(t, func() bool { return !f.orch.Generating() && len(f.orch.History()) == 1 },
		2*time.Second, 10*time.Millisecond)

	page := f.do(http.MethodGet, "/", "").Body.String()
	assert.Equal(t, 3, strings.Count(page, `class="suggestion"`))
	assert.Equal(t, 4, strings.Count(page, `class="tag"`))
	assert.Contains(t, page, `value="CNC Line A"`, "draft survives submission")
	assert.Contains(t, page, ">OEE</textarea>")
	assert.Contains(t, page, `href="/download"`)

	id := f.orch.History()[0].ID
	assert.Equal(t, http.StatusSeeOther, f.postForm("/history/"+id+"/select", nil).Code)
	assert.Equal(t, id, f.orch.State().CurrentReportID)

	assert.Equal(t, http.StatusSeeOther, f.postForm("/history/clear", nil).Code)
	assert.Empty(t, f.orch.History())
	assert.Contains(t, f.do(http.MethodGet, "/", "").Body.String(), "Welcome to the AI Report Generator")
}

func TestPageShowsFailure(t *testing.T) {
	f := newFixture(t, &stubGen{err: errors.New("timeout")})

	f.postForm("/generate", url.Values{"processName": {"A"}, "processDescription": {"B"}})
	require.Eventually(t, func() bool { return f.orch.State().Error != "" }, 2*time.Second, 10*time.Millisecond)

	page := f.do(http.MethodGet, "/", "").Body.String()
	assert.Contains(t, page, service.FailureMessage)
	assert.NotContains(t, page, "timeout")
}

func TestAuthGate(t *testing.T) {
	hash, err := service.HashPassword("hunter2")
	require.NoError(t, err)
	f := newFixture(t, &stubGen{raw: reportJSON}, func(d *Deps) {
		d.Auth = service.NewAuthService(config.AuthConfig{PasswordHash: hash, JWTSecret: "k"})
	})

	w := f.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/state", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/login", "").Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/login", `{"password":"nope"}`).Code)
	w = f.do(http.MethodPost, "/api/login", `{"password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/state", "", "Authorization", "Bearer "+login.Token).Code)

	w = f.postForm("/login", url.Values{"password": {"hunter2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: login.Token})
	page := httptest.NewRecorder()
	f.router.ServeHTTP(page, req)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `action="/logout"`)

	w = f.postForm("/logout", nil)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	w = f.postForm("/login", url.Values{"password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong password.")
}

func TestEvents(t *testing.T) {
	f := newFixture(t, &stubGen{raw: reportJSON})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}
	assert.JSONEq(t, `{"isGenerating":false}`, next())

	_, err = f.orch.Submit(context.Background(), model.ProcessInput{ProcessName: "A", ProcessDescription: "B"})
	require.NoError(t, err)

	var last model.State
	for i := 0; i < 10 && (last.CurrentReportID == "" || last.IsGenerating); i++ {
		require.NoError(t, json.Unmarshal([]byte(next()), &last))
	}
	assert.NotEmpty(t, last.CurrentReportID)
	assert.False(t, last.IsGenerating)
}
