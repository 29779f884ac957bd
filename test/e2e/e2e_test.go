package e2e

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

// Run against a live server, e.g.
//
//	E2E_BASE_URL=http://localhost:9871 go test ./...
func baseURL(t *testing.T) string {
	t.Helper()
	u := os.Getenv("E2E_BASE_URL")
	if u == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	return strings.TrimRight(u, "/")
}

// browser wraps a chromedp context with test helpers.
type browser struct {
	ctx    context.Context
	cancel context.CancelFunc
	t      *testing.T
	base   string
}

func newBrowser(t *testing.T, timeout time.Duration) *browser {
	t.Helper()
	base := baseURL(t)
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	ctx, timeCancel := context.WithTimeout(ctx, timeout)

	b := &browser{ctx: ctx, t: t, base: base}
	b.cancel = func() { timeCancel(); ctxCancel(); allocCancel() }
	return b
}

func (b *browser) close() { b.cancel() }

func (b *browser) run(actions ...chromedp.Action) {
	b.t.Helper()
	if err := chromedp.Run(b.ctx, actions...); err != nil {
		b.t.Fatalf("chromedp: %v", err)
	}
}

func (b *browser) eval(js string) string {
	b.t.Helper()
	var r interface{}
	if err := chromedp.Run(b.ctx, chromedp.Evaluate(js, &r)); err != nil {
		b.t.Fatalf("eval: %v", err)
	}
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%v", r)
}

func (b *browser) open() {
	b.t.Helper()
	b.run(
		chromedp.Navigate(b.base+"/"),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
	if b.eval(`location.pathname`) == "/login" {
		pw := os.Getenv("E2E_PASSWORD")
		if pw == "" {
			b.t.Skip("server requires a password; set E2E_PASSWORD")
		}
		b.run(
			chromedp.SendKeys(`#password`, pw, chromedp.ByQuery),
			chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		)
	}
	b.run(chromedp.WaitVisible(`#process-form`, chromedp.ByQuery))
}

func (b *browser) submitDisabled() bool {
	return b.eval(`document.getElementById('generate').disabled`) == "true"
}

func (b *browser) clearHistory() {
	if b.eval(`!!document.getElementById('clear-history')`) == "true" {
		b.run(
			chromedp.Click(`#clear-history`, chromedp.ByQuery),
			chromedp.WaitVisible(`.welcome`, chromedp.ByQuery),
		)
	}
}

func TestSubmitNeedsNameAndDescription(t *testing.T) {
	b := newBrowser(t, 30*time.Second)
	defer b.close()
	b.open()

	b.run(
		chromedp.SetValue(`#processName`, "", chromedp.ByQuery),
		chromedp.SetValue(`#processDescription`, "", chromedp.ByQuery),
		chromedp.Evaluate(`document.getElementById('processName').dispatchEvent(new Event('input'))`, nil),
	)
	if !b.submitDisabled() {
		t.Fatal("submit enabled with empty form")
	}

	b.run(chromedp.SendKeys(`#processName`, "CNC Line A", chromedp.ByQuery))
	if !b.submitDisabled() {
		t.Fatal("submit enabled without a description")
	}

	b.run(chromedp.SendKeys(`#processDescription`, "Three cells feed one inspection station.", chromedp.ByQuery))
	if b.submitDisabled() {
		t.Fatal("submit still disabled with both required fields")
	}
}

func TestGenerateShowsReportAndHistory(t *testing.T) {
	b := newBrowser(t, 4*time.Minute)
	defer b.close()
	b.open()
	b.clearHistory()

	b.run(
		chromedp.SetValue(`#processName`, "", chromedp.ByQuery),
		chromedp.SetValue(`#processDescription`, "", chromedp.ByQuery),
		chromedp.SendKeys(`#processName`, "E2E Bottling Line", chromedp.ByQuery),
		chromedp.SendKeys(`#processDescription`, "Filling, capping and labelling with manual case packing.", chromedp.ByQuery),
		chromedp.SendKeys(`#challenges`, "Frequent jams at the capper.", chromedp.ByQuery),
		chromedp.Click(`#generate`, chromedp.ByQuery),
		chromedp.WaitVisible(`#report`, chromedp.ByQuery),
	)

	if got := b.eval(`document.querySelectorAll('#report h3').length`); got != "6" {
		t.Fatalf("sections = %s, want 6", got)
	}
	if got := b.eval(`document.querySelector('#report h2').textContent`); got != "E2E Bottling Line" {
		t.Fatalf("title = %q", got)
	}
	if b.eval(`document.querySelectorAll('#report li.suggestion').length`) == "0" {
		t.Fatal("no optimization suggestions rendered")
	}
	if !strings.Contains(b.eval(`document.querySelector('.history').textContent`), "E2E Bottling Line") {
		t.Fatal("history entry missing")
	}
	if got := b.eval(`document.querySelector('a.download').getAttribute('href')`); got != "/download" {
		t.Fatalf("download link = %q", got)
	}

	b.clearHistory()
	if b.eval(`!!document.getElementById('report')`) != "false" {
		t.Fatal("report still shown after clearing history")
	}
}
