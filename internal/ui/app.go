package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/logtail"
	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/prefs"
	"github.com/five82/linelist/internal/state"
)

// Dispatcher accepts intents from the view. *linelist.Process satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, in linelist.Intent) error
}

// ProjectLookup fetches the project shown in the header.
type ProjectLookup interface {
	FetchProject(ctx context.Context) (metadata.Project, error)
}

// mode is the current input mode.
type mode int

const (
	modeGrid mode = iota
	modeEdit
	modeConfirmRemove
	modeHelp
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Dispatcher    Dispatcher
	Store         *state.Store
	Projects      ProjectLookup // nil hides project details
	Notifications <-chan linelist.Notification
	LogPath       string // activity log; empty disables the pane
	PollTick      time.Duration
	ThemeName     string
	Prefs         prefs.Prefs
	PrefsPath     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	dispatcher Dispatcher
	store      *state.Store
	projects   ProjectLookup
	notes      <-chan linelist.Notification
	logPath    string
	prefs      prefs.Prefs
	prefsPath  string
	pollTick   time.Duration
	keys       keyMap

	// UI state
	theme  Theme
	mode   mode
	width  int
	height int
	ready  bool

	// Data state
	snapshot   state.Snapshot
	project    *metadata.Project
	projectErr error

	// Grid state
	grid      table.Model
	columns   []column
	col       int // index into columns; 0 is the sample column
	colOffset int // first field column in view

	// Cell editor
	editor     textinput.Model
	editSample string
	editField  string
	editValue  any // cell value when the editor opened; edits keep its type

	// Field removal confirmation
	removeField string

	// Notifications
	notice      *linelist.Notification
	noticeUntil time.Time

	// Activity pane
	showActivity bool
	activity     viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	grid := table.New(table.WithFocused(true))
	grid.SetStyles(tableStyles(theme))

	editor := textinput.New()
	editor.Prompt = "› "
	editor.CharLimit = 512

	return Model{
		ctx:        ctx,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		projects:   opts.Projects,
		notes:      opts.Notifications,
		logPath:    strings.TrimSpace(opts.LogPath),
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		theme:      theme,
		grid:       grid,
		editor:     editor,
		colOffset:  1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.projects != nil {
		cmds = append(cmds, fetchProjectCmd(m.ctx, m.projects))
	}
	if m.notes != nil {
		cmds = append(cmds, waitForNotice(m.notes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.activity = viewport.New(msg.Width, activityHeight)
		}
		m.ready = true
		m.activity.Width = msg.Width
		m.updateGrid()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		snap := state.Snapshot(msg)
		if snap.Version == m.snapshot.Version && m.columns != nil {
			return m, nil
		}
		m.snapshot = snap
		m.updateGrid()
		return m, nil

	case projectMsg:
		if msg.err != nil {
			m.projectErr = msg.err
			return m, nil
		}
		p := msg.project
		m.project = &p
		m.projectErr = nil
		return m, nil

	case noticeMsg:
		n := linelist.Notification(msg)
		m.notice = &n
		m.noticeUntil = time.Now().Add(NoticeTTL)
		return m, waitForNotice(m.notes)

	case dispatchErrMsg:
		m.notice = &linelist.Notification{Level: linelist.LevelError, Text: msg.err.Error(), Time: time.Now()}
		m.noticeUntil = time.Now().Add(NoticeTTL)
		return m, nil

	case activityMsg:
		m.setActivity(msg)
		return m, nil
	}

	if m.mode == modeEdit {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == modeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input for the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeHelp:
		m.mode = modeGrid
		return m, nil
	case modeEdit:
		return m.handleEditKey(msg)
	case modeConfirmRemove:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.grid.SetStyles(tableStyles(m.theme))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmds := []tea.Cmd{m.dispatch(linelist.LoadRequested{})}
		if m.projects != nil {
			cmds = append(cmds, fetchProjectCmd(m.ctx, m.projects))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Activity):
		if m.logPath == "" {
			return m, nil
		}
		m.showActivity = !m.showActivity
		m.updateGrid()
		if m.showActivity {
			return m, readActivityCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.grid.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.grid.MoveDown(1)
	case key.Matches(msg, m.keys.Top):
		m.grid.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.grid.GotoBottom()
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.updateGrid()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.columns)-1 {
			m.col++
			m.updateGrid()
		}

	case key.Matches(msg, m.keys.Edit):
		m.startEdit()
		return m, nil

	case key.Matches(msg, m.keys.RemoveField):
		if m.col > 0 && m.col < len(m.columns) {
			m.removeField = m.columns[m.col].field
			m.mode = modeConfirmRemove
		}
		return m, nil

	case key.Matches(msg, m.keys.HideField):
		if m.col > 0 && m.col < len(m.columns) {
			m.prefs.ToggleHidden(m.columns[m.col].field)
			m.savePrefs()
			m.updateGrid()
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowAll):
		if len(m.prefs.HiddenFields) > 0 {
			m.prefs.HiddenFields = nil
			m.savePrefs()
			m.updateGrid()
		}
		return m, nil
	}

	return m, nil
}

// startEdit opens the cell editor on the selected cell.
func (m *Model) startEdit() {
	entry, col, ok := m.selectedCell()
	if !ok || col.isSample() {
		return
	}
	current, _ := entry.Value(col.field)
	m.editSample = entry.SampleID
	m.editField = col.field
	m.editValue = current
	m.editor.SetValue(metadata.FormatValue(current))
	m.editor.CursorEnd()
	m.editor.Focus()
	m.mode = modeEdit
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeEditor()
		return m, nil
	case tea.KeyEnter:
		edit := linelist.EntryEdited{
			SampleID: m.editSample,
			Field:    m.editField,
			Label:    metadata.FieldLabel(m.editField),
			Value:    metadata.EditValue(m.editor.Value(), m.editValue),
		}
		m.closeEditor()
		return m, m.dispatch(edit)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) closeEditor() {
	m.editor.Blur()
	m.editor.SetValue("")
	m.editSample = ""
	m.editField = ""
	m.editValue = nil
	m.mode = modeGrid
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		field := m.removeField
		m.removeField = ""
		m.mode = modeGrid
		return m, m.dispatch(linelist.FieldRemovalRequested{Field: field})
	case key.Matches(msg, m.keys.Cancel):
		m.removeField = ""
		m.mode = modeGrid
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showActivity && m.logPath != "" {
		cmds = append(cmds, readActivityCmd(m.logPath))
	}
	if m.notice != nil && now.After(m.noticeUntil) {
		m.notice = nil
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.notice = &linelist.Notification{Level: linelist.LevelError, Text: "Unable to save preferences: " + err.Error(), Time: time.Now()}
		m.noticeUntil = time.Now().Add(NoticeTTL)
	}
}

// dispatch hands an intent to the process off the UI goroutine.
func (m Model) dispatch(in linelist.Intent) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		if err := d.Dispatch(ctx, in); err != nil {
			return dispatchErrMsg{err: err}
		}
		return nil
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	if m.showActivity {
		b.WriteString(m.renderActivity())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type projectMsg struct {
	project metadata.Project
	err     error
}

type noticeMsg linelist.Notification

type dispatchErrMsg struct {
	err error
}

type activityMsg struct {
	records []logtail.Record
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchProjectCmd(ctx context.Context, projects ProjectLookup) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ProjectFetchTimeout)
		defer cancel()
		p, err := projects.FetchProject(ctx)
		return projectMsg{project: p, err: err}
	}
}

// waitForNotice blocks on the notification channel and delivers one notice.
func waitForNotice(ch <-chan linelist.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		records, err := logtail.ReadRecords(path, activityLines)
		return activityMsg{records: records, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
