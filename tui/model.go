package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/augmaticaudio/gre/surface"
	"github.com/augmaticaudio/gre/theme"
	"github.com/augmaticaudio/gre/widgets"
)

// Page identifies one of the three surface views
type Page int

const (
	PageGenerate Page = iota
	PageMix
	PageBend
)

var pageNames = []string{"Generate", "Mix", "Bend"}

const (
	barWidth   = 24
	waveWidth  = 48
	waveHeight = 9
	xyPadSize  = 9

	cursorGlyph = "▶ "
)

// spreadWindow is how fast two presses on a priority cell must land to
// count as a double-activation.
const spreadWindow = 400 * time.Millisecond

// focusItem is one navigable control row on a page
type focusItem struct {
	id    string
	label string
}

// popupState holds an open option picker for a discrete control
type popupState struct {
	controlID string
	title     string
	options   []string
	selected  int
}

// mixCursor addresses a cell on the mix page: rows 0-5 are matrix rows,
// row 6 is the column summary row. Columns: M1 S1 M2 S2 prio P1 P2.
type mixCursor struct {
	row, col int
}

const mixCols = 7

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Dec    key.Binding
	Inc    key.Binding
	Coarse key.Binding
	Select key.Binding
	Reset  key.Binding
	Page   key.Binding
	Save   key.Binding
	Load   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous control")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next control")),
		Dec:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "decrease")),
		Inc:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "increase")),
		Coarse: key.NewBinding(key.WithKeys("H", "L"), key.WithHelp("H/L", "coarse step")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle / pick")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset control")),
		Page:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save session")),
		Load:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "load session")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Dec, k.Inc, k.Select, k.Page, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Dec, k.Inc, k.Coarse},
		{k.Select, k.Reset, k.Page},
		{k.Save, k.Load, k.Quit},
	}
}

type Model struct {
	Surface *surface.Surface
	Theme   *theme.Theme

	page    Page
	focus   int // index into the current page's focus items
	mix     mixCursor
	popup   *popupState
	keys    keyMap
	help    help.Model
	status  string
	session string

	// Double-activation tracking for priority cells
	lastPrioRow  int
	lastPrioTime time.Time

	// Redraw channel fed by the surface display hooks
	updates chan struct{}

	quitting bool
}

// UpdateMsg wakes the TUI after a surface mutation
type UpdateMsg struct{}

func NewModel(s *surface.Surface, th *theme.Theme) *Model {
	m := &Model{
		Surface:     s,
		Theme:       th,
		keys:        defaultKeyMap(),
		help:        help.New(),
		session:     "default",
		lastPrioRow: -1,
		updates:     make(chan struct{}, 1),
	}
	s.OnRedraw(func() {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	return m
}

// SetSession names the snapshot used by the save and load keys
func (m *Model) SetSession(name string) {
	if name != "" {
		m.session = name
	}
}

// SetPage selects the initially visible page. Out-of-range values are
// ignored so a stale saved page falls back to Generate.
func (m *Model) SetPage(p int) {
	if p >= 0 && p < len(pageNames) {
		m.page = Page(p)
	}
}

// CurrentPage reports the page the model is showing.
func (m *Model) CurrentPage() Page {
	return m.page
}

func listenForUpdates(updates chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.popup != nil {
			m.handlePopupKey(msg)
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Surface.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Page):
			m.page = (m.page + 1) % 3
			m.focus = 0
		case key.Matches(msg, m.keys.Save):
			if err := m.Surface.SaveSession(m.session); err != nil {
				m.status = fmt.Sprintf("save failed: %v", err)
			} else {
				m.status = fmt.Sprintf("saved %q", m.session)
			}
		case key.Matches(msg, m.keys.Load):
			if err := m.Surface.LoadSession(m.session); err != nil {
				m.status = fmt.Sprintf("load failed: %v", err)
			} else {
				m.status = fmt.Sprintf("loaded %q", m.session)
			}
		default:
			if m.page == PageMix {
				m.handleMixKey(msg)
			} else {
				m.handleControlKey(msg)
			}
		}

	case UpdateMsg:
		return m, listenForUpdates(m.updates)
	}

	return m, nil
}

// focusItems returns the navigable controls of the current page
func (m *Model) focusItems() []focusItem {
	switch m.page {
	case PageGenerate:
		return []focusItem{
			{surface.CtlSteps, "Steps"},
			{surface.CtlPulses, "Pulses"},
			{surface.CtlStartOn, "Start On"},
			{surface.CtlRate, "Rate"},
			{surface.CtlGate, "Gate"},
			{surface.CtlSwing, "Swing"},
			{surface.CtlFeelXY, "Feel"},
			{surface.CtlVolume, "Volume"},
			{surface.CtlAccent, "Accent"},
			{surface.CtlDensity, "Density"},
			{surface.CtlChannel, "Channel"},
			{surface.CtlActive, "Active"},
		}
	case PageBend:
		return []focusItem{
			{surface.BendWeightID(0), "Half"},
			{surface.BendWeightID(1), "Quarter"},
			{surface.BendWeightID(2), "Sixth"},
			{surface.BendWeightID(3), "Eighth"},
			{surface.CtlBendAction, ""}, // label is state-dependent
		}
	default:
		// Instrument strips below the matrix grid
		var items []focusItem
		for r := 0; r < surface.NumMixRows; r++ {
			name := surface.InstrumentNames[r]
			items = append(items,
				focusItem{surface.FixedID(r), name + " Fixed"},
				focusItem{surface.ScaleID(r), name + " Scale"},
				focusItem{surface.LevelID(r), name + " Level"},
			)
		}
		return items
	}
}

func (m *Model) focusedControl() (*surface.Control, string) {
	items := m.focusItems()
	if len(items) == 0 {
		return nil, ""
	}
	if m.focus >= len(items) {
		m.focus = len(items) - 1
	}
	it := items[m.focus]
	return m.Surface.Controls.Get(it.id), it.id
}

func (m *Model) handleControlKey(msg tea.KeyMsg) {
	items := m.focusItems()
	c, id := m.focusedControl()
	if c == nil {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.focus < len(items)-1 {
			m.focus++
		}
	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}
	case key.Matches(msg, m.keys.Reset):
		c.Reset()
	case key.Matches(msg, m.keys.Select):
		switch c.Kind() {
		case surface.KindBool:
			if id == surface.CtlBendAction {
				// Momentary: press fires the state-selected action
				c.SetOn(true)
			} else {
				c.Toggle()
			}
		case surface.KindIndex:
			m.openPopup(c, id)
		}
	default:
		m.adjust(c, msg)
	}
}

// adjust nudges the focused control from the left/right keys. h/l is a
// fine step, H/L coarse. On the feel pad h/l moves X and H/L moves Y.
func (m *Model) adjust(c *surface.Control, msg tea.KeyMsg) {
	dir := 0.0
	coarse := false
	switch msg.String() {
	case "h", "left":
		dir = -1
	case "l", "right":
		dir = 1
	case "H":
		dir, coarse = -1, true
	case "L":
		dir, coarse = 1, true
	default:
		return
	}

	switch c.Kind() {
	case surface.KindIndex:
		c.SetIndex(c.Index() + int(dir))
	case surface.KindBool:
		c.SetOn(dir > 0)
	case surface.KindPoint:
		x, y := c.Point()
		const step = 1.0 / 16
		if coarse {
			c.SetPoint(x, y+dir*step)
		} else {
			c.SetPoint(x+dir*step, y)
		}
	default:
		span := c.Max() - c.Min()
		step := span / 50
		if coarse {
			step = span / 10
		}
		c.SetValue(c.Value() + dir*step)
	}
}

func (m *Model) openPopup(c *surface.Control, id string) {
	m.popup = &popupState{
		controlID: id,
		title:     id,
		options:   c.Options(),
		selected:  c.Index(),
	}
}

func (m *Model) handlePopupKey(msg tea.KeyMsg) {
	p := m.popup
	switch msg.String() {
	case "j", "down":
		if p.selected < len(p.options)-1 {
			p.selected++
		}
	case "k", "up":
		if p.selected > 0 {
			p.selected--
		}
	case "enter", " ":
		if c := m.Surface.Controls.Get(p.controlID); c != nil {
			c.SetIndex(p.selected)
		}
		m.popup = nil
	case "esc", "q":
		m.popup = nil
	}
}

func (m *Model) handleMixKey(msg tea.KeyMsg) {
	mx := m.Surface.Matrix
	switch msg.String() {
	case "j", "down":
		if m.mix.row < surface.NumMixRows {
			m.mix.row++
		}
	case "k", "up":
		if m.mix.row > 0 {
			m.mix.row--
		}
	case "h", "left":
		if m.mix.col > 0 {
			m.mix.col--
		}
	case "l", "right":
		if m.mix.col < mixCols-1 {
			m.mix.col++
		}
	case "enter", " ":
		m.activateMixCell()
	case "[":
		m.adjustMixCell(-5)
	case "]":
		m.adjustMixCell(5)
	default:
		// Number keys set priority directly on a priority cell
		if m.mix.col == 4 && m.mix.row < surface.NumMixRows && len(msg.String()) == 1 {
			ch := msg.String()[0]
			if ch >= '1' && ch <= '6' {
				mx.SetPriority(m.mix.row, int(ch-'1'))
			}
		}
	}
}

func (m *Model) activateMixCell() {
	mx := m.Surface.Matrix
	row, col := m.mix.row, m.mix.col

	// Summary row: bulk toggle the column
	if row == surface.NumMixRows {
		if col < 4 {
			mx.BulkColumn(surface.MixColumn(col))
		}
		return
	}

	switch {
	case col < 4:
		flag := surface.MixColumn(col)
		mx.SetFlag(row, flag, !mx.Flag(row, flag))
	case col == 4:
		// Double-activation spreads this row's priority to every row,
		// a single activation steps it.
		now := time.Now()
		if m.lastPrioRow == row && now.Sub(m.lastPrioTime) < spreadWindow {
			mx.SpreadPriority(row)
			m.lastPrioRow = -1
		} else {
			mx.SetPriority(row, (mx.Priority(row)+1)%(surface.MaxPriority+1))
			m.lastPrioRow = row
			m.lastPrioTime = now
		}
	case col == 5:
		mx.SetPercent(row, 1, mx.Row(row).P1+5)
	case col == 6:
		mx.SetPercent(row, 2, mx.Row(row).P2+5)
	}
}

func (m *Model) adjustMixCell(delta float64) {
	mx := m.Surface.Matrix
	row, col := m.mix.row, m.mix.col
	if row >= surface.NumMixRows {
		return
	}
	switch col {
	case 5:
		mx.SetPercent(row, 1, mx.Row(row).P1+delta)
	case 6:
		mx.SetPercent(row, 2, mx.Row(row).P2+delta)
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())

	var out strings.Builder
	out.WriteString("\n")

	tabs := make([]string, len(pageNames))
	for i, name := range pageNames {
		if Page(i) == m.page {
			tabs[i] = headerStyle.Render("[" + name + "]")
		} else {
			tabs[i] = dimStyle.Render(" " + name + " ")
		}
	}
	out.WriteString(headerStyle.Render("gre") + "  " + strings.Join(tabs, " "))
	out.WriteString("\n\n")

	switch m.page {
	case PageGenerate:
		out.WriteString(m.viewGenerate())
	case PageMix:
		out.WriteString(m.viewMix())
	case PageBend:
		out.WriteString(m.viewBend())
	}

	if m.popup != nil {
		out.WriteString("\n")
		out.WriteString(m.renderPopup())
	}

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

func (m *Model) viewGenerate() string {
	th := m.Theme
	var out strings.Builder
	out.WriteString(m.viewControls())
	if c := m.Surface.Controls.Get(surface.CtlFeelXY); c != nil {
		x, y := c.Point()
		out.WriteString("\n")
		out.WriteString(widgets.RenderXYPad(x, y, xyPadSize*2, xyPadSize,
			th.RGB(theme.RoleCursor), th.RGB(theme.RoleMuted)))
	}
	return out.String()
}

// viewControls renders the focus list of the current page as labeled rows
func (m *Model) viewControls() string {
	var out strings.Builder
	items := m.focusItems()
	for i, it := range items {
		c := m.Surface.Controls.Get(it.id)
		if c == nil {
			continue
		}
		cursor := "  "
		if i == m.focus {
			cursor = cursorGlyph
		}
		out.WriteString(cursor)
		out.WriteString(fmt.Sprintf("%-12s ", it.label))
		out.WriteString(m.renderControl(c))
		out.WriteString("\n")
	}
	return out.String()
}

// renderControl draws one control row: bar, toggle, option label, or point
func (m *Model) renderControl(c *surface.Control) string {
	th := m.Theme
	fill := th.RGB(theme.RoleActive)
	empty := th.RGB(theme.RoleMuted)
	if !c.IsEnabled() {
		fill = th.RGB(theme.RoleMuted)
		empty = th.RGB(theme.RoleSurface)
	}

	switch c.Kind() {
	case surface.KindBool:
		return widgets.RenderToggle(c.On(), th.RGB(theme.RoleActive), th.RGB(theme.RoleMuted))
	case surface.KindIndex:
		return fmt.Sprintf("%s  %s",
			widgets.RenderBar(c.Norm(), 0, barWidth, fill, empty), c.Label())
	case surface.KindPoint:
		x, y := c.Point()
		return fmt.Sprintf("x %.2f  y %.2f", x, y)
	default:
		origin := 0.0
		if c.Kind() == surface.KindBipolar {
			// Zero crossing maps to the bar's fill origin
			origin = (0 - c.Min()) / (c.Max() - c.Min())
		}
		return fmt.Sprintf("%s  %6.1f",
			widgets.RenderBar(c.Norm(), origin, barWidth, fill, empty), c.Value())
	}
}

func (m *Model) viewMix() string {
	th := m.Theme
	mx := m.Surface.Matrix
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(th.Cursor())

	var out strings.Builder
	out.WriteString(dimStyle.Render("           M1   S1   M2   S2   Pri   P1    P2"))
	out.WriteString("\n")

	cell := func(row, col int, body string) string {
		if m.mix.row == row && m.mix.col == col {
			return cursorStyle.Render("[") + body + cursorStyle.Render("]")
		}
		return " " + body + " "
	}

	for r := 0; r < surface.NumMixRows; r++ {
		row := mx.Row(r)
		out.WriteString(fmt.Sprintf("  %-7s ", surface.InstrumentNames[r]))
		for col := surface.ColM1; col <= surface.ColS2; col++ {
			color := th.RGB(theme.RoleMuted)
			if row.Flags[col] {
				color = th.RGB(theme.RoleActive)
			}
			out.WriteString(cell(r, int(col), widgets.RenderPad(color)))
			out.WriteString(" ")
		}
		out.WriteString(" " + cell(r, 4, fmt.Sprintf("%d", row.Priority+1)))
		out.WriteString(" " + cell(r, 5, fmt.Sprintf("%3.0f", row.P1)))
		out.WriteString(" " + cell(r, 6, fmt.Sprintf("%3.0f", row.P2)))
		out.WriteString("\n")
	}

	// Summary row: column indicators double as bulk toggles
	out.WriteString("  " + dimStyle.Render("all") + "     ")
	for col := surface.ColM1; col <= surface.ColS2; col++ {
		color := th.RGB(theme.RoleMuted)
		if mx.ColumnAll(col) {
			color = th.RGB(theme.RoleActive)
		}
		out.WriteString(cell(surface.NumMixRows, int(col), widgets.RenderPad(color)))
		out.WriteString(" ")
	}
	out.WriteString("\n\n")

	out.WriteString(m.viewControls())
	return out.String()
}

func (m *Model) viewBend() string {
	th := m.Theme
	var out strings.Builder
	items := m.focusItems()
	for i, it := range items {
		cursor := "  "
		if i == m.focus {
			cursor = cursorGlyph
		}
		if it.id == surface.CtlBendAction {
			out.WriteString(fmt.Sprintf("%s[ %s ]\n", cursor, m.Surface.BenderActionLabel()))
			continue
		}
		c := m.Surface.Controls.Get(it.id)
		if c == nil {
			continue
		}
		out.WriteString(fmt.Sprintf("%s%-12s %s\n", cursor, it.label, m.renderControl(c)))
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderWave(
		m.Surface.Bender.Sample(waveWidth),
		waveWidth, waveHeight,
		th.RGB(theme.RoleHighlite), th.RGB(theme.RoleMuted)))
	out.WriteString("\n")
	return out.String()
}

func (m *Model) renderPopup() string {
	p := m.popup
	var out strings.Builder

	width := 20
	for _, opt := range p.options {
		if len(opt)+4 > width {
			width = len(opt) + 4
		}
	}

	out.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	padding := (width - len(p.title)) / 2
	if padding < 0 {
		padding = 0
	}
	out.WriteString("│" + strings.Repeat(" ", padding) + p.title +
		strings.Repeat(" ", width-padding-len(p.title)) + "│\n")
	out.WriteString("├" + strings.Repeat("─", width) + "┤\n")

	// Window long lists around the selection
	lo, hi := 0, len(p.options)
	const maxRows = 12
	if hi > maxRows {
		lo = p.selected - maxRows/2
		if lo < 0 {
			lo = 0
		}
		hi = lo + maxRows
		if hi > len(p.options) {
			hi = len(p.options)
			lo = hi - maxRows
		}
	}

	for i := lo; i < hi; i++ {
		prefix := "  "
		if i == p.selected {
			prefix = "> "
		}
		optStr := prefix + p.options[i]
		if len(optStr) > width {
			optStr = optStr[:width]
		}
		out.WriteString("│" + optStr + strings.Repeat(" ", width-len(optStr)) + "│\n")
	}
	out.WriteString("└" + strings.Repeat("─", width) + "┘\n")

	return out.String()
}
