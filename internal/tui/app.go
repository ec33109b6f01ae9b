package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/backend"
	"github.com/jask/casedesk/internal/config"
	"github.com/jask/casedesk/internal/history"
	"github.com/jask/casedesk/internal/model"
	"github.com/jask/casedesk/internal/session"
)

// Backend is what the App needs from the question-answering and case-asset
// services.
type Backend interface {
	Ask(ctx context.Context, caseID, question string) (backend.Answer, error)
	ListAssets(ctx context.Context, caseID string) ([]model.Asset, error)
}

// App ties the session to the terminal.
type App struct {
	ctx     context.Context
	cfg     config.Config
	backend Backend
	sess    *session.Session
	hist    *history.Store
	log     *zap.Logger
	keys    keyMap

	focus         focus
	caseInput     textinput.Model
	questionInput textinput.Model
	spinner       spinner.Model

	assetCursor int
	filter      string
	filtering   bool
	status      string

	// cancels for unfinished catalog loads, keyed by load id
	inflight map[int]context.CancelFunc
	loadID   int

	recall *history.Cursor
	draft  string

	width int
}

type focus int

const (
	focusCase focus = iota
	focusQuestion
	focusAssets
	focusCount
)

// New builds the App. The session starts empty; Init switches to the
// configured default case.
func New(ctx context.Context, cfg config.Config, b Backend, sess *session.Session, hist *history.Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	ci := textinput.New()
	ci.Prompt = "case> "
	ci.Placeholder = "case id"
	ci.CharLimit = 128
	ci.SetValue(cfg.Session.DefaultCase)

	qi := textinput.New()
	qi.Prompt = "ask> "
	qi.Placeholder = "question about this case"
	qi.SetValue(cfg.Session.DefaultQuestion)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		ctx:           ctx,
		cfg:           cfg,
		backend:       b,
		sess:          sess,
		hist:          hist,
		log:           log.Named("tui"),
		keys:          defaultKeys(),
		caseInput:     ci,
		questionInput: qi,
		spinner:       sp,
		inflight:      make(map[int]context.CancelFunc),
	}
	a.setFocus(focusQuestion)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.switchCase(a.caseInput.Value()), a.spinner.Tick, textinput.Blink)
}

// switchCase makes id the active case and returns the catalog load for it.
// Loads still running for the previous case are cancelled; their results
// would be discarded by the session anyway.
func (a *App) switchCase(id string) tea.Cmd {
	for id, cancel := range a.inflight {
		cancel()
		delete(a.inflight, id)
	}
	a.assetCursor = 0
	a.recall = nil
	t := a.sess.SetCase(id)
	a.log.Info("case switched", zap.String("case_id", id), zap.Uint64("epoch", t.Epoch))
	a.status = ""
	return a.loadAssetsCmd(t)
}

func (a *App) refresh() tea.Cmd {
	a.status = "refreshing assets..."
	return a.loadAssetsCmd(a.sess.Refresh())
}

func (a *App) loadAssetsCmd(t session.LoadTicket) tea.Cmd {
	ctx, cancel := context.WithCancel(a.ctx)
	a.loadID++
	id := a.loadID
	a.inflight[id] = cancel
	return func() tea.Msg {
		defer cancel()
		assets, err := a.backend.ListAssets(ctx, t.CaseID)
		return assetsMsg{id: id, ticket: t, assets: assets, err: err}
	}
}

func (a *App) ask() tea.Cmd {
	q := strings.TrimSpace(a.questionInput.Value())
	if q == "" {
		a.status = "enter a question"
		return nil
	}
	if a.hist != nil {
		a.hist.Record(a.sess.CaseID(), q)
	}
	a.recall = nil
	a.status = ""
	t := a.sess.Ask(q)
	return a.askCmd(t)
}

func (a *App) askCmd(t session.AskTicket) tea.Cmd {
	return func() tea.Msg {
		ans, err := a.backend.Ask(a.ctx, t.CaseID, t.Question)
		return answerMsg{ticket: t, answer: ans, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case assetsMsg:
		a.applyAssets(m)
	case answerMsg:
		a.applyAnswer(m)
	case tea.KeyMsg:
		return a.handleKey(m)
	default:
		return a, a.updateFocusedInput(msg)
	}
	return a, nil
}

func (a *App) applyAssets(m assetsMsg) {
	delete(a.inflight, m.id)
	if m.err != nil {
		if a.sess.FailAssets(m.ticket, m.err) {
			a.status = "error: " + m.err.Error()
		}
		return
	}
	if !a.sess.CommitAssets(m.ticket, m.assets) {
		return
	}
	if n := len(a.visibleAssets()); a.assetCursor >= n {
		a.assetCursor = 0
	}
	a.status = fmt.Sprintf("%d assets in %s", len(m.assets), m.ticket.CaseID)
}

func (a *App) applyAnswer(m answerMsg) {
	if m.err != nil {
		a.sess.FailAnswer(m.ticket, m.err)
		return
	}
	a.sess.CommitAnswer(m.ticket, m.answer.Text, m.answer.Citations)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.ForceQuit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Refresh):
		return a, a.refresh()
	case key.Matches(m, a.keys.Next) && !a.filtering:
		a.setFocus((a.focus + 1) % focusCount)
		return a, nil
	case key.Matches(m, a.keys.Prev) && !a.filtering:
		a.setFocus((a.focus + focusCount - 1) % focusCount)
		return a, nil
	}

	switch a.focus {
	case focusCase:
		if key.Matches(m, a.keys.Submit) {
			return a, a.switchCase(strings.TrimSpace(a.caseInput.Value()))
		}
	case focusQuestion:
		switch {
		case key.Matches(m, a.keys.Submit):
			return a, a.ask()
		case m.Type == tea.KeyUp:
			a.recallPrev()
			return a, nil
		case m.Type == tea.KeyDown:
			a.recallNext()
			return a, nil
		}
	case focusAssets:
		return a.handleAssetsKey(m)
	}
	return a, a.updateFocusedInput(m)
}

func (a *App) handleAssetsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filtering {
		switch m.Type {
		case tea.KeyEsc:
			a.filtering = false
			a.filter = ""
		case tea.KeyEnter:
			a.filtering = false
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if r := []rune(a.filter); len(r) > 0 {
				a.filter = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			a.filter += " "
		case tea.KeyRunes:
			a.filter += string(m.Runes)
		}
		a.assetCursor = 0
		return a, nil
	}

	visible := a.visibleAssets()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.assetCursor > 0 {
			a.assetCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.assetCursor < len(visible)-1 {
			a.assetCursor++
		}
	case key.Matches(m, a.keys.Select):
		if len(visible) == 0 {
			return a, nil
		}
		if err := a.sess.Select(visible[a.assetCursor].Name); err != nil {
			a.status = "error: " + err.Error()
		}
	case key.Matches(m, a.keys.Clear):
		a.sess.Clear()
	case key.Matches(m, a.keys.Filter):
		a.filtering = true
	}
	return a, nil
}

func (a *App) recallPrev() {
	if a.hist == nil {
		return
	}
	if a.recall == nil {
		a.recall = a.hist.Cursor(a.sess.CaseID())
		a.draft = a.questionInput.Value()
	}
	if q, ok := a.recall.Prev(); ok {
		a.questionInput.SetValue(q)
		a.questionInput.CursorEnd()
	}
}

func (a *App) recallNext() {
	if a.recall == nil {
		return
	}
	q, ok := a.recall.Next()
	if !ok {
		q = a.draft
		a.recall = nil
	}
	a.questionInput.SetValue(q)
	a.questionInput.CursorEnd()
}

func (a *App) setFocus(f focus) {
	a.focus = f
	a.caseInput.Blur()
	a.questionInput.Blur()
	switch f {
	case focusCase:
		a.caseInput.Focus()
	case focusQuestion:
		a.questionInput.Focus()
	}
}

func (a *App) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusCase:
		a.caseInput, cmd = a.caseInput.Update(msg)
	case focusQuestion:
		a.questionInput, cmd = a.questionInput.Update(msg)
	}
	return cmd
}

func (a *App) visibleAssets() []model.Asset {
	return filterAssets(a.filter, a.sess.Assets())
}

// messages
type assetsMsg struct {
	id     int
	ticket session.LoadTicket
	assets []model.Asset
	err    error
}

type answerMsg struct {
	ticket session.AskTicket
	answer backend.Answer
	err    error
}
