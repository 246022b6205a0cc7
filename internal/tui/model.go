package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
	"github.com/javiermolinar/roster/internal/tui/commands"
	"github.com/javiermolinar/roster/internal/tui/theme"
	"github.com/javiermolinar/roster/internal/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "prompt"
	case ModeModal:
		return "modal"
	default:
		return "normal"
	}
}

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalInit
	ModalDetail
	ModalReport
	ModalConfirmRemove
)

// Screen is the projection shown in the grid.
type Screen int

const (
	ScreenClass Screen = iota
	ScreenTeacher
	ScreenRoom
	ScreenOccupancy
	screenCount
)

func (s Screen) String() string {
	switch s {
	case ScreenTeacher:
		return "Teacher"
	case ScreenRoom:
		return "Room"
	case ScreenOccupancy:
		return "Occupancy"
	default:
		return "Class"
	}
}

// viewMode maps a grid screen to its projection.
func (s Screen) viewMode() view.Mode {
	switch s {
	case ScreenTeacher:
		return view.ByTeacher
	case ScreenRoom:
		return view.ByRoom
	default:
		return view.ByClass
	}
}

// Position represents a cursor position in the grid.
// In the occupancy screen Row indexes rooms and Col indexes periods;
// elsewhere Row indexes periods and Col indexes days.
type Position struct {
	Col int
	Row int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	config   *config.Config
	repo     schedule.Repository
	sess     *session.Session
	sessOpts []session.Option
	log      *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	screen     Screen
	entity     int // index into entities(), the day in the occupancy screen
	cursor     Position
	mode       Mode
	loading    bool
	suggesting bool

	// Modal state
	modalType  ModalType
	modalTitle string
	modalBody  string
	removeID   string
	initState  InitState
	initError  string

	// Components
	prompt textinput.Model

	// Projections, rebuilt after every mutation
	table view.Table
	occ   view.Occupancy

	// Terminal dimensions and layout
	width        int
	height       int
	colWidth     int
	scrollOffset int

	// Messages
	statusMsg string
	statusErr bool
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.mode = ModeModal
			m.modalType = ModalInit
		}
	}
}

// WithLogger sets the debug logger for key presses and events.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSessionOptions passes options to the session opened on startup.
func WithSessionOptions(opts ...session.Option) ModelOption {
	return func(m *Model) {
		m.sessOpts = append(m.sessOpts, opts...)
	}
}

// WithSession starts the model on an already loaded session.
func WithSession(sess *session.Session) ModelOption {
	return func(m *Model) {
		m.sess = sess
		m.loading = false
		m.refresh()
	}
}

// New creates a new TUI model.
func New(repo schedule.Repository, cfg *config.Config, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "/suggest, /add, /class ..."
	ti.CharLimit = 256

	t, themeErr := theme.Load(cfg.UI.Theme)
	if themeErr != nil {
		t = theme.Default()
	}
	styles := NewStyles(t)

	ti.PromptStyle = styles.StatusStyle
	ti.TextStyle = styles.StatusStyle
	ti.PlaceholderStyle = styles.HintStyle

	h := help.New()
	h.Styles.ShortKey = styles.TitleStyle
	h.Styles.ShortDesc = styles.HintStyle
	h.Styles.FullKey = styles.TitleStyle
	h.Styles.FullDesc = styles.HintStyle

	m := Model{
		config:   cfg,
		repo:     repo,
		log:      zap.NewNop(),
		theme:    t,
		styles:   styles,
		keys:     newKeyMap(),
		help:     h,
		mode:     ModeNormal,
		loading:  true,
		prompt:   ti,
		colWidth: defaultColWidth,
	}

	if themeErr != nil {
		m.statusMsg = themeErr.Error()
		m.statusErr = true
	}

	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.initState.NeedsInit || m.sess != nil {
		return nil
	}
	return commands.OpenSession(m.config, m.repo, m.sessionOptions()...)
}

func (m Model) sessionOptions() []session.Option {
	opts := append([]session.Option{session.WithLogger(m.log)}, m.sessOpts...)
	return opts
}

// Run starts the TUI.
// repo may be nil, in which case storage is created on first start after
// the user confirms.
func Run(repo schedule.Repository, cfg *config.Config, opts ...ModelOption) error {
	initialRepo := repo
	var initState InitState

	if repo == nil {
		state, err := DetectInitState(cfg)
		if err != nil {
			return err
		}
		initState = state
		if !state.NeedsInit {
			repo, err = openRepo(state.DBPath)
			if err != nil {
				return err
			}
		}
	}

	model := New(repo, cfg, append(opts, WithInitState(initState))...)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if initialRepo == nil {
		if m, ok := finalModel.(Model); ok && m.repo != nil {
			_ = m.repo.Close()
		}
	}
	return err
}

// entities lists the keys selectable in the current screen.
func (m Model) entities() []string {
	if m.sess == nil {
		return nil
	}
	switch m.screen {
	case ScreenTeacher:
		return view.TeacherIDs(m.sess.Directory(), m.sess.Slots())
	case ScreenRoom:
		return view.RoomIDs(m.sess.Directory(), m.sess.Slots())
	case ScreenOccupancy:
		return m.sess.Days()
	default:
		return m.sess.Classes()
	}
}

// currentEntity returns the selected class, teacher or room key.
func (m Model) currentEntity() string {
	list := m.entities()
	if len(list) == 0 {
		return ""
	}
	return list[clamp(m.entity, 0, len(list)-1)]
}

// refresh rebuilds the projections from the session.
func (m *Model) refresh() {
	if m.sess == nil {
		return
	}
	p := m.sess.Projector()

	if m.screen == ScreenOccupancy {
		days := m.sess.Days()
		if len(days) == 0 {
			m.occ = view.Occupancy{}
			return
		}
		m.entity = clamp(m.entity, 0, len(days)-1)
		m.occ = p.RoomOccupancy(days[m.entity])
		m.cursor.Row = clamp(m.cursor.Row, 0, max(0, len(m.occ.Rooms)-1))
		m.cursor.Col = clamp(m.cursor.Col, 0, max(0, len(m.occ.Periods)-1))
	} else {
		n := len(m.entities())
		m.entity = clamp(m.entity, 0, max(0, n-1))
		m.table = p.Project(m.screen.viewMode(), m.currentEntity())
		m.cursor.Row = clamp(m.cursor.Row, 0, max(0, len(m.table.Rows)-1))
		m.cursor.Col = clamp(m.cursor.Col, 0, max(0, len(m.table.Days)-1))
	}
	m.colWidth = m.calculateColWidth()
	m.ensureCursorVisible()
}

// selectedCell returns the table cell under the cursor.
func (m Model) selectedCell() (view.Cell, bool) {
	if m.screen == ScreenOccupancy {
		return view.Cell{}, false
	}
	if m.cursor.Row < 0 || m.cursor.Row >= len(m.table.Rows) {
		return view.Cell{}, false
	}
	row := m.table.Rows[m.cursor.Row]
	if m.cursor.Col < 0 || m.cursor.Col >= len(row.Cells) {
		return view.Cell{}, false
	}
	return row.Cells[m.cursor.Col], true
}

// selectedOccupancy returns the occupancy cell under the cursor.
func (m Model) selectedOccupancy() (view.OccupancyCell, bool) {
	if m.screen != ScreenOccupancy {
		return view.OccupancyCell{}, false
	}
	if m.cursor.Row < 0 || m.cursor.Row >= len(m.occ.Rooms) {
		return view.OccupancyCell{}, false
	}
	row := m.occ.Rooms[m.cursor.Row]
	if m.cursor.Col < 0 || m.cursor.Col >= len(row.Cells) {
		return view.OccupancyCell{}, false
	}
	return row.Cells[m.cursor.Col], true
}

// rowCount returns the number of grid rows in the current screen.
func (m Model) rowCount() int {
	if m.screen == ScreenOccupancy {
		return len(m.occ.Rooms)
	}
	return len(m.table.Rows)
}

// colCount returns the number of grid columns in the current screen.
func (m Model) colCount() int {
	if m.screen == ScreenOccupancy {
		return len(m.occ.Periods)
	}
	return len(m.table.Days)
}

func (m Model) calculateColWidth() int {
	cols := m.colCount()
	if cols == 0 || m.width == 0 {
		return defaultColWidth
	}
	frameW, _ := m.styles.AppStyle.GetFrameSize()
	lead := periodColWidth
	if m.screen == ScreenOccupancy {
		lead = defaultColWidth / 2
	}
	w := (m.width - frameW - lead - cols) / cols
	if w < minColWidth {
		return minColWidth
	}
	return w
}

// visibleRows is the number of grid rows that fit between header and footer.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return m.rowCount()
	}
	// title, tabs, day header, detail line, status, help, prompt box
	chrome := 7
	if m.mode == ModePrompt {
		chrome += 2
	}
	return max(1, m.height-chrome)
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor.Row < m.scrollOffset {
		m.scrollOffset = m.cursor.Row
	}
	if m.cursor.Row >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Row - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
