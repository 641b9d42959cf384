package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fractalvid/internal/render"
)

const (
	barWidth   = 40
	graphWidth = 48
)

// FrameMsg reports a finished frame.
type FrameMsg struct {
	Stats     render.FrameStats
	NumFrames int
}

// DoneMsg reports the end of a run.
type DoneMsg struct {
	Err error
}

// ChannelObserver forwards frames to a progress view. Sends are abandoned once
// ctx is done so a closed view never blocks the driver.
type ChannelObserver struct {
	ctx    context.Context
	events chan<- tea.Msg
}

func NewChannelObserver(ctx context.Context, events chan<- tea.Msg) *ChannelObserver {
	return &ChannelObserver{ctx: ctx, events: events}
}

func (o *ChannelObserver) OnFrame(stats render.FrameStats, numFrames int) {
	select {
	case o.events <- FrameMsg{Stats: stats, NumFrames: numFrames}:
	case <-o.ctx.Done():
	}
}

// ProgressModel is the live view of a render.
type ProgressModel struct {
	title     string
	numFrames int
	events    <-chan tea.Msg
	cancel    context.CancelFunc

	last      render.FrameStats
	rendered  int
	means     []float64
	started   time.Time
	done      bool
	cancelled bool
	err       error
}

func NewProgressModel(title string, numFrames int, events <-chan tea.Msg, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{
		title:     title,
		numFrames: numFrames,
		events:    events,
		cancel:    cancel,
		means:     make([]float64, 0, numFrames),
		started:   time.Now(),
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			return m, tea.Quit
		}
	case FrameMsg:
		m.last = msg.Stats
		m.rendered = msg.Stats.Index + 1
		if msg.NumFrames > 0 {
			m.numFrames = msg.NumFrames
		}
		if !math.IsNaN(msg.Stats.Mean) {
			m.means = append(m.means, msg.Stats.Mean)
		}
		return m, waitForEvent(m.events)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) Rendered() int   { return m.rendered }
func (m ProgressModel) Done() bool      { return m.done }
func (m ProgressModel) Cancelled() bool { return m.cancelled }
func (m ProgressModel) Err() error      { return m.err }

func (m ProgressModel) percent() float64 {
	if m.numFrames < 1 {
		return 0
	}
	return float64(m.rendered) / float64(m.numFrames)
}

func (m ProgressModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.cancelled:
		return StatusStopped.Render("CANCELLED")
	case m.done:
		return StatusRunning.Render("DONE")
	default:
		return StatusRunning.Render("RENDERING")
	}
}

func (m ProgressModel) View() string {
	var s strings.Builder

	s.WriteString(Title.Render(m.title) + "  " + m.status() + "\n\n")
	s.WriteString(ProgressBar(m.percent(), barWidth))
	s.WriteString(fmt.Sprintf(" %d/%d\n\n", m.rendered, m.numFrames))

	if m.rendered > 0 {
		p := m.last.Pose
		s.WriteString(Metric("center", fmt.Sprintf("%.5f, %.5f", p.CenterX, p.CenterY)) + "\n")
		s.WriteString(Metric("zoom", fmt.Sprintf("%.4f", p.Zoom)) + "\n")
		s.WriteString(Metric("exponent", fmt.Sprintf("%.4f", p.Exponent)) + "\n")
		s.WriteString(Metric("frame", FormatDuration(m.last.Elapsed)) + "\n")
		if m.last.NonFinite > 0 {
			s.WriteString(Metric("nonfinite", fmt.Sprintf("%d", m.last.NonFinite)) + "\n")
		}
		s.WriteString(Metric("elapsed", FormatDuration(time.Since(m.started))) + "\n")
	}

	if len(m.means) > 1 {
		chart := asciigraph.Plot(m.means,
			asciigraph.Height(4),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("mean escape"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("q: cancel") + "\n")

	return Panel.Render(s.String())
}

// RunWithProgress runs render in the background while showing a ProgressModel
// fed by d. Quitting the view cancels the render; RunWithProgress returns once
// render has returned.
func RunWithProgress(ctx context.Context, title string, d *render.Driver, run func(context.Context) (*render.Result, error)) (*render.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 16)
	d.AddObserver(NewChannelObserver(ctx, events))

	var (
		result *render.Result
		runErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer close(events)
		result, runErr = run(ctx)
		select {
		case events <- DoneMsg{Err: runErr}:
		case <-ctx.Done():
		}
	}()

	model := NewProgressModel(title, d.Settings().NumFrames, events, cancel)
	_, uiErr := tea.NewProgram(model).Run()

	cancel()
	<-finished

	if runErr != nil {
		return result, runErr
	}
	return result, uiErr
}
