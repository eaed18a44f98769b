// Package tui is the interactive catalog browser.
//
// The bubbletea Update loop is the only place Browser state changes. Fetches
// run as commands and come back as messages tagged with their request
// sequence, so late answers to superseded requests are dropped by the Browser.
package tui

import (
	"context"

	"github.com/Makepad-fr/catalog/internal/catalog"
	"github.com/Makepad-fr/catalog/internal/debounce"
	"github.com/Makepad-fr/catalog/internal/query"
	"github.com/Makepad-fr/catalog/internal/ui"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeDetail
)

// settledMsg carries a query state the debouncer let through.
type settledMsg struct{ State query.State }

type catalogMsg struct{ Result catalog.Result }

type detailMsg struct{ Result catalog.DetailResult }

// Deps are the collaborators of the browser model.
type Deps struct {
	Context   context.Context
	Browser   *catalog.Browser
	Fetcher   catalog.Fetcher
	Debouncer *debounce.Debouncer[query.State]
	Log       zerolog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	browser *catalog.Browser
	fetcher catalog.Fetcher
	deb     *debounce.Debouncer[query.State]
	log     zerolog.Logger

	keys    keyMap
	help    help.Model
	inputs  []textinput.Model // one per query.FilterFields entry
	focus   int
	mode    mode
	cursor  int
	pager   paginator.Model
	spinner spinner.Model
	detail  viewport.Model

	width, height int
}

// New builds the model. The initial query state is whatever the Browser
// restored; Init fetches it right away.
func New(d Deps) Model {
	ctx := d.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := ui.Current()
	labels := map[query.Field]string{
		query.StartsWith: "starts with",
		query.EndsWith:   "ends with",
		query.Contains:   "contains",
		query.Article:    "article",
	}
	state := d.Browser.State()
	inputs := make([]textinput.Model, 0, len(query.FilterFields))
	for _, f := range query.FilterFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = labels[f]
		ti.CharLimit = 120
		ti.Width = 30
		ti.SetValue(state.Get(f))
		inputs = append(inputs, ti)
	}

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d of %d"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Accent

	h := help.New()
	h.Styles.ShortKey = theme.Muted
	h.Styles.ShortDesc = theme.Muted
	h.Styles.FullKey = theme.Muted
	h.Styles.FullDesc = theme.Muted

	m := Model{
		ctx:     ctx,
		browser: d.Browser,
		fetcher: d.Fetcher,
		deb:     d.Debouncer,
		log:     d.Log.With().Str("component", "tui").Logger(),
		keys:    defaultKeys(),
		help:    h,
		inputs:  inputs,
		pager:   pg,
		spinner: sp,
		detail:  viewport.New(detailWidth-4, 10),
		width:   80,
		height:  24,
	}
	m.syncPager()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForSettled(),
		m.startCatalog(m.browser.State()),
	)
}

// waitForSettled blocks on the debouncer and reports the next settled state.
// It is re-armed after every settledMsg.
func (m Model) waitForSettled() tea.Cmd {
	if m.deb == nil {
		return nil
	}
	ch := m.deb.Settled()
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return settledMsg{State: s}
	}
}

func (m Model) startCatalog(s query.State) tea.Cmd {
	t := m.browser.BeginCatalog(s)
	ctx, f := m.ctx, m.fetcher
	return tea.Batch(
		func() tea.Msg { return catalogMsg{Result: t.Run(ctx, f)} },
		m.spinner.Tick,
	)
}

func (m Model) startDetail(id int) tea.Cmd {
	t := m.browser.BeginDetail(id)
	ctx, f := m.ctx, m.fetcher
	return tea.Batch(
		func() tea.Msg { return detailMsg{Result: t.Run(ctx, f)} },
		m.spinner.Tick,
	)
}

// schedule hands a new query state to the debouncer.
func (m Model) schedule(s query.State) {
	if m.deb != nil {
		m.deb.Set(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.detail.Height = max(3, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		snap := m.browser.Snapshot()
		if !snap.LoadingCatalog && !snap.LoadingDetail {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settledMsg:
		m.log.Debug().Int("page", msg.State.Page).Bool("filtered", query.IsFilterActive(msg.State)).Msg("query settled")
		return m, tea.Batch(m.startCatalog(msg.State), m.waitForSettled())

	case catalogMsg:
		if m.browser.ResolveCatalog(msg.Result) {
			m.syncPager()
			m.clampCursor()
		}
		return m, nil

	case detailMsg:
		if m.browser.ResolveDetail(msg.Result) {
			m.detail.SetContent(m.detailContent())
			m.detail.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		return m, m.inputs[m.focus].Focus()
	case key.Matches(msg, m.keys.Clear):
		m.clearFilters()
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.pageTo(m.browser.State().Page + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		m.pageTo(m.browser.State().Page - 1)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m.openDetail()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns())
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m.quit()
	case key.Matches(msg, m.keys.Close), msg.Type == tea.KeyEnter:
		m.inputs[m.focus].Blur()
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField(m.focus - 1)
	case key.Matches(msg, m.keys.Clear):
		m.clearFilters()
		return m, nil
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		s, err := m.browser.EditFilter(query.FilterFields[m.focus], after)
		if err != nil {
			m.log.Error().Err(err).Msg("filter edit rejected")
			return m, cmd
		}
		m.cursor = 0
		m.schedule(s)
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m.quit()
	case key.Matches(msg, m.keys.Close), msg.String() == "q", msg.Type == tea.KeyBackspace:
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.deb != nil {
		m.deb.Stop()
	}
	return m, tea.Quit
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = ((i % n) + n) % n
	return m.inputs[m.focus].Focus()
}

func (m *Model) clearFilters() {
	s := m.browser.ClearFilters()
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.cursor = 0
	m.schedule(s)
}

// pageTo is a no-op while pagination is disabled or n is out of range.
func (m *Model) pageTo(n int) {
	if !m.browser.CanChangePage(n) {
		return
	}
	s, err := m.browser.ChangePage(n)
	if err != nil {
		m.log.Error().Err(err).Int("page", n).Msg("page change rejected")
		return
	}
	m.cursor = 0
	m.syncPager()
	m.schedule(s)
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	snap := m.browser.Snapshot()
	if snap.LoadingCatalog || m.cursor >= len(snap.Page.Items) {
		return m, nil
	}
	m.mode = modeDetail
	m.detail.SetContent(m.detailContent())
	return m, m.startDetail(snap.Page.Items[m.cursor].ID)
}

func (m *Model) moveCursor(delta int) {
	n := len(m.browser.Snapshot().Page.Items)
	if n == 0 {
		m.cursor = 0
		return
	}
	c := m.cursor + delta
	if c < 0 || c >= n {
		return
	}
	m.cursor = c
}

func (m *Model) clampCursor() {
	n := len(m.browser.Snapshot().Page.Items)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) syncPager() {
	snap := m.browser.Snapshot()
	m.pager.TotalPages = max(1, snap.Page.TotalPages, snap.Query.Page)
	m.pager.Page = snap.Query.Page - 1
}
