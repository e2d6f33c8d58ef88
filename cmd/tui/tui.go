// Command tui is an interactive job monitor. It lists your Harmony jobs
// in a table that refreshes on an interval and lets you inspect, pause,
// resume, or cancel a job without leaving the terminal.
package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/earthdata-go/harmony/auth"
	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/config"
)

const (
	refreshInterval = 10 * time.Second
	maxJobs         = 100
)

type TUI struct {
	app    *tview.Application
	pages  *tview.Pages
	table  *tview.Table
	detail *tview.TextView
	status *tview.TextView

	client *harmonyclient.Client

	mu   sync.Mutex
	jobs []*harmonyclient.Job

	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopOnce   sync.Once
}

func configureStyles() {
	tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
	tview.Styles.BorderColor = tcell.ColorWhite
	tview.Styles.TitleColor = tcell.ColorWhite
	tview.Styles.PrimaryTextColor = tcell.ColorWhite
	tview.Styles.SecondaryTextColor = tcell.ColorYellow
}

// NewTUI builds the monitor. Credentials and the target environment come
// from the process environment (EDL_TOKEN or EDL_USERNAME/EDL_PASSWORD,
// HARMONY_ENVIRONMENT).
func NewTUI(ctx context.Context) (*TUI, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	baseCtx, baseCancel := context.WithCancel(ctx)

	cfg, err := config.Load()
	if err != nil {
		baseCancel()
		return nil, err
	}
	client, err := harmonyclient.New(
		harmonyclient.WithConfig(cfg),
		harmonyclient.WithCredentials(auth.FromEnv()),
	)
	if err != nil {
		baseCancel()
		return nil, err
	}

	configureStyles()

	tui := &TUI{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		client:     client,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
	tui.setupPages()
	return tui, nil
}

func (t *TUI) setupPages() {
	t.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	t.table.SetBorder(true).SetTitle(" Jobs ")
	t.table.SetSelectedFunc(func(row, _ int) {
		if job := t.jobAt(row); job != nil {
			t.showDetail(job)
		}
	})
	t.table.SetInputCapture(t.handleKey)

	t.status = tview.NewTextView().SetDynamicColors(true)
	t.status.SetText(" [yellow]enter[-] detail  [yellow]r[-] refresh  [yellow]p[-] pause  [yellow]u[-] resume  [yellow]c[-] cancel  [yellow]q[-] quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.table, 0, 1, true).
		AddItem(t.status, 1, 0, false)
	t.pages.AddPage("jobs", layout, true, true)

	t.detail = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.detail.SetBorder(true).SetTitle(" Job ")
	t.detail.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			t.pages.SwitchToPage("jobs")
			return nil
		}
		return event
	})
	t.pages.AddPage("detail", t.detail, true, false)
}

func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q':
		t.Stop()
		return nil
	case 'r':
		go t.refresh()
		return nil
	case 'p':
		t.transitionSelected(t.client.Jobs().Pause)
		return nil
	case 'u':
		t.transitionSelected(t.client.Jobs().Resume)
		return nil
	case 'c':
		t.transitionSelected(t.client.Jobs().Cancel)
		return nil
	}
	return event
}

func (t *TUI) jobAt(row int) *harmonyclient.Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := row - 1 // header row
	if idx < 0 || idx >= len(t.jobs) {
		return nil
	}
	return t.jobs[idx]
}

func (t *TUI) transitionSelected(fn func(context.Context, string, ...harmonyclient.RequestOption) (*harmonyclient.Job, error)) {
	row, _ := t.table.GetSelection()
	job := t.jobAt(row)
	if job == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(t.baseCtx, 30*time.Second)
		defer cancel()
		if _, err := fn(ctx, job.JobID); err != nil {
			t.setStatus(fmt.Sprintf("[red]%v", err))
			return
		}
		t.refresh()
	}()
}

func (t *TUI) setStatus(msg string) {
	t.app.QueueUpdateDraw(func() {
		t.status.SetText(" " + msg)
	})
}

func (t *TUI) refresh() {
	ctx, cancel := context.WithTimeout(t.baseCtx, 30*time.Second)
	defer cancel()

	var jobs []*harmonyclient.Job
	for job, err := range t.client.Jobs().List(ctx) {
		if err != nil {
			t.setStatus(fmt.Sprintf("[red]%v", err))
			return
		}
		jobs = append(jobs, job)
		if len(jobs) >= maxJobs {
			break
		}
	}

	t.mu.Lock()
	t.jobs = jobs
	t.mu.Unlock()

	t.app.QueueUpdateDraw(func() {
		t.renderTable(jobs)
	})
}

func (t *TUI) renderTable(jobs []*harmonyclient.Job) {
	t.table.Clear()
	headers := []string{"JOB ID", "STATUS", "PROGRESS", "UPDATED", "MESSAGE"}
	for col, header := range headers {
		t.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).SetSelectable(false))
	}
	for i, job := range jobs {
		row := i + 1
		t.table.SetCell(row, 0, tview.NewTableCell(job.JobID))
		t.table.SetCell(row, 1, tview.NewTableCell(string(job.Status)).
			SetTextColor(statusColor(job.Status)))
		t.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d%%", job.Progress)))
		t.table.SetCell(row, 3, tview.NewTableCell(job.UpdatedAt.Format("2006-01-02 15:04")))
		t.table.SetCell(row, 4, tview.NewTableCell(truncate(job.Message, 50)))
	}
	t.table.SetTitle(fmt.Sprintf(" Jobs (%d) ", len(jobs)))
}

func statusColor(status harmonyclient.JobStatus) tcell.Color {
	switch {
	case status == harmonyclient.StatusFailed || status == harmonyclient.StatusCanceled:
		return tcell.ColorRed
	case status.Succeeded():
		return tcell.ColorGreen
	case status == harmonyclient.StatusPaused || status == harmonyclient.StatusPreviewing:
		return tcell.ColorYellow
	default:
		return tcell.ColorWhite
	}
}

func (t *TUI) showDetail(job *harmonyclient.Job) {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]Job ID[-]    %s\n", job.JobID)
	fmt.Fprintf(&b, "[yellow]Status[-]    %s\n", job.Status)
	fmt.Fprintf(&b, "[yellow]Progress[-]  %d%%\n", job.Progress)
	fmt.Fprintf(&b, "[yellow]Created[-]   %s\n", job.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "[yellow]Updated[-]   %s\n", job.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "[yellow]Granules[-]  %d\n", job.NumInputGranules)
	if job.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message[-]   %s\n", job.Message)
	}
	if len(job.Labels) > 0 {
		fmt.Fprintf(&b, "[yellow]Labels[-]    %s\n", strings.Join(job.Labels, ", "))
	}
	if job.Request != "" {
		fmt.Fprintf(&b, "\n[yellow]Request[-]\n%s\n", job.Request)
	}
	if data := job.DataLinks(); len(data) > 0 {
		fmt.Fprintf(&b, "\n[yellow]Results (%d)[-]\n", len(data))
		for _, link := range data {
			fmt.Fprintf(&b, "  %s\n", link.Href)
		}
	}
	for _, jobErr := range job.Errors {
		fmt.Fprintf(&b, "\n[red]Error[-] %s: %s\n", jobErr.URL, jobErr.Message)
	}

	t.detail.SetText(b.String()).ScrollToBeginning()
	t.detail.SetTitle(fmt.Sprintf(" Job %s ", job.JobID))
	t.pages.SwitchToPage("detail")
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// Run starts the event loop and the background refresh ticker.
func (t *TUI) Run() error {
	go func() {
		t.refresh()
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-t.baseCtx.Done():
				return
			case <-ticker.C:
				t.refresh()
			}
		}
	}()
	return t.app.SetRoot(t.pages, true).Run()
}

func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		if t.baseCancel != nil {
			t.baseCancel()
		}
		t.app.Stop()
	})
}
