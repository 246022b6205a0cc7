package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/db"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/session"
	"github.com/javiermolinar/roster/internal/tui/commands"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Schedule.Days = []string{"Senin", "Selasa"}
	cfg.Schedule.Classes = []string{"X A", "X B"}
	cfg.Schedule.Periods = []config.PeriodConfig{
		{ID: 1, Label: "07:00 - 07:45"},
		{ID: 2, Label: "07:45 - 08:30"},
		{ID: 2.5, Label: "ISTIRAHAT", Break: true},
		{ID: 3, Label: "08:45 - 09:30"},
	}
	return cfg
}

// testModel opens a session on a fresh SQLite file with two teachers and
// one room.
func testModel(t *testing.T) Model {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()

	repo, err := db.New(filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	for _, tc := range []schedule.Teacher{{ID: "t1", Name: "Budi"}, {ID: "t2", Name: "Sari"}} {
		if err := repo.SaveTeacher(ctx, tc); err != nil {
			t.Fatalf("saving teacher: %v", err)
		}
	}
	if err := repo.SaveRoom(ctx, schedule.Room{ID: "r1", Name: "Lab 1"}); err != nil {
		t.Fatalf("saving room: %v", err)
	}

	sess, err := session.Open(ctx, cfg, repo)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	return New(repo, cfg, WithSession(sess))
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func run(t *testing.T, m Model, line string) Model {
	t.Helper()
	updated, _ := m.runPrompt(line)
	return updated.(Model)
}

func TestNew_LoadsSessionOnInit(t *testing.T) {
	m := New(nil, testConfig())
	if !m.loading {
		t.Fatal("expected model to start loading")
	}
	if m.Init() == nil {
		t.Fatal("expected Init to open the session")
	}
}

func TestWithInitState_ShowsInitModal(t *testing.T) {
	m := New(nil, testConfig(), WithInitState(InitState{NeedsInit: true, DBMissing: true, DBPath: "/tmp/x.db"}))

	if m.mode != ModeModal || m.modalType != ModalInit {
		t.Fatalf("mode = %v, modal = %v, want init modal", m.mode, m.modalType)
	}
	if m.Init() != nil {
		t.Fatal("expected no command before init is confirmed")
	}
	if !strings.Contains(m.View(), "/tmp/x.db") {
		t.Fatal("expected the database path in the init modal")
	}
}

func TestSessionLoadedMsg(t *testing.T) {
	cfg := testConfig()
	m := New(nil, cfg)

	updated, _ := m.Update(commands.SessionLoadedMsg{
		Session: session.New(cfg, nil),
		Err:     errors.New("loading schedule: disk gone"),
	})
	m = updated.(Model)

	if m.loading {
		t.Fatal("expected loading to finish")
	}
	if !m.statusErr || !strings.Contains(m.statusMsg, "disk gone") {
		t.Fatalf("status = %q, want load warning", m.statusMsg)
	}
	if len(m.table.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.table.Rows))
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Position
	}{
		{name: "right", keys: []string{"l"}, want: Position{Col: 1}},
		{name: "right stops at last day", keys: []string{"l", "l", "l"}, want: Position{Col: 1}},
		{name: "down", keys: []string{"j", "j"}, want: Position{Row: 2}},
		{name: "down stops at last period", keys: []string{"j", "j", "j", "j", "j"}, want: Position{Row: 3}},
		{name: "up stops at top", keys: []string{"k"}, want: Position{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, testModel(t), tt.keys...)
			if m.cursor != tt.want {
				t.Fatalf("cursor = %+v, want %+v", m.cursor, tt.want)
			}
		})
	}
}

func TestScreens(t *testing.T) {
	m := testModel(t)

	m = press(t, m, "tab")
	if m.screen != ScreenTeacher || m.currentEntity() != "t1" {
		t.Fatalf("screen = %v entity = %q, want teacher t1", m.screen, m.currentEntity())
	}

	m = press(t, m, "]")
	if m.currentEntity() != "t2" {
		t.Fatalf("entity = %q, want t2", m.currentEntity())
	}
	m = press(t, m, "]")
	if m.currentEntity() != "t1" {
		t.Fatalf("entity = %q, want wrap to t1", m.currentEntity())
	}

	m = press(t, m, "shift+tab", "shift+tab")
	if m.screen != ScreenOccupancy || m.occ.Day != "Senin" {
		t.Fatalf("screen = %v day = %q, want occupancy of Senin", m.screen, m.occ.Day)
	}
}

func TestPromptAdd(t *testing.T) {
	m := testModel(t)

	m = run(t, m, "/add Matematika | Budi | r1")
	slots := m.sess.Slots()
	if len(slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(slots))
	}
	got := slots[0]
	if got.Day != "Senin" || got.Period != 1 || got.ClassName != "X A" || got.TeacherID != "t1" || got.RoomID != "r1" {
		t.Fatalf("slot = %+v", got)
	}
	if m.statusErr {
		t.Fatalf("unexpected error status %q", m.statusMsg)
	}

	cell, ok := m.selectedCell()
	if !ok || cell.Empty() {
		t.Fatal("expected the new lesson under the cursor")
	}
}

func TestPromptAdd_TeacherScreen(t *testing.T) {
	m := press(t, testModel(t), "tab", "l")

	m = run(t, m, "/add X B | PKN")
	slots := m.sess.Slots()
	if len(slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(slots))
	}
	if slots[0].ClassName != "X B" || slots[0].TeacherID != "t1" || slots[0].Day != "Selasa" {
		t.Fatalf("slot = %+v", slots[0])
	}
}

func TestPromptAdd_ReportsDoubleBooking(t *testing.T) {
	m := press(t, testModel(t), "tab")

	m = run(t, m, "/add X A | PAI")
	if strings.Contains(m.statusMsg, "double-booked") {
		t.Fatalf("first lesson reported as double-booked: %q", m.statusMsg)
	}
	m = run(t, m, "/add X B | PKN")
	if !strings.Contains(m.statusMsg, "double-booked") {
		t.Fatalf("status = %q, want double-booked", m.statusMsg)
	}
	if len(m.sess.Slots()) != 2 {
		t.Fatalf("slots = %d, want 2", len(m.sess.Slots()))
	}
}

func TestPromptAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		line string
	}{
		{name: "break row", keys: []string{"j", "j"}, line: "/add PAI | Budi"},
		{name: "missing subject", line: "/add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := run(t, press(t, testModel(t), tt.keys...), tt.line)
			if !m.statusErr {
				t.Fatalf("expected error status, got %q", m.statusMsg)
			}
			if len(m.sess.Slots()) != 0 {
				t.Fatal("expected no slot to be added")
			}
		})
	}
}

func TestPromptAdd_UnknownTeacherOpensReview(t *testing.T) {
	m := run(t, testModel(t), "/add PAI | Pak Guru")

	if m.modalType != ModalReport {
		t.Fatalf("modal = %v, want review", m.modalType)
	}
	if !strings.Contains(m.modalBody, "Pak Guru") {
		t.Fatalf("modal body = %q", m.modalBody)
	}
	if len(m.sess.Slots()) != 1 {
		t.Fatal("warnings must not block the lesson")
	}
}

func TestRemoveWithConfirm(t *testing.T) {
	m := run(t, testModel(t), "/add PAI | Budi")

	m = press(t, m, "x")
	if m.modalType != ModalConfirmRemove {
		t.Fatalf("modal = %v, want confirm", m.modalType)
	}
	m = press(t, m, "n")
	if len(m.sess.Slots()) != 1 {
		t.Fatal("cancel must keep the lesson")
	}

	m = press(t, m, "x", "y")
	if len(m.sess.Slots()) != 0 {
		t.Fatal("expected the lesson to be removed")
	}
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
}

func TestSuggestionsMsgMergesBatch(t *testing.T) {
	m := run(t, testModel(t), "/add PAI | Budi")
	m.suggesting = true

	updated, _ := m.Update(commands.SuggestionsMsg{Suggestions: []llm.Suggestion{
		{Day: "Senin", Period: 1, ClassName: "X A", Subject: "Matematika", TeacherName: "Sari"},
		{Day: "Senin", Period: 1, ClassName: "X B", Subject: "PAI", TeacherName: "Sari"},
	}})
	m = updated.(Model)

	if m.suggesting {
		t.Fatal("expected suggesting to finish")
	}
	slots := m.sess.Slots()
	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	if !strings.Contains(m.statusMsg, "1 replaced, 1 new") {
		t.Fatalf("status = %q", m.statusMsg)
	}
	// Sari teaches two classes at once.
	if !m.table.Rows[0].Cells[0].Conflicting {
		t.Fatal("expected the merged cell to be marked conflicting")
	}
	if m.modalType != ModalReport {
		t.Fatalf("modal = %v, want review of the double booking", m.modalType)
	}
	m = press(t, m, "esc")
	if !strings.Contains(m.View(), "2 conflicting") {
		t.Fatal("expected the conflict count in the header")
	}
}

func TestSuggestKeyStartsRequest(t *testing.T) {
	m := testModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = updated.(Model)
	if !m.suggesting || cmd == nil {
		t.Fatal("expected a suggestion request")
	}

	// No generator is configured, so the command reports an error.
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	if m.suggesting || !m.statusErr {
		t.Fatalf("suggesting = %v status = %q", m.suggesting, m.statusMsg)
	}
}

func TestPromptPeriod(t *testing.T) {
	m := testModel(t)

	m = run(t, m, "/period break 3.5")
	p, ok := m.sess.Grid().Get(3.5)
	if !ok || !p.Break || p.Label != schedule.BreakLabel {
		t.Fatalf("period = %+v, ok = %v", p, ok)
	}
	if len(m.table.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(m.table.Rows))
	}

	m = run(t, m, "/period relabel 3 08:45 - 09:30 (Upacara)")
	if p, _ := m.sess.Grid().Get(3); p.Label != "08:45 - 09:30 (Upacara)" {
		t.Fatalf("label = %q", p.Label)
	}

	m = run(t, m, "/period remove 9")
	if !m.statusErr {
		t.Fatal("expected an error for a missing period")
	}
}

func TestJumpTo(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantScreen Screen
		wantEntity string
		wantErr    bool
	}{
		{name: "class", line: "/class x b", wantScreen: ScreenClass, wantEntity: "X B"},
		{name: "teacher by name", line: "/teacher Sari", wantScreen: ScreenTeacher, wantEntity: "t2"},
		{name: "room", line: "/room r1", wantScreen: ScreenRoom, wantEntity: "r1"},
		{name: "occupancy day", line: "/occupancy selasa", wantScreen: ScreenOccupancy, wantEntity: "Selasa"},
		{name: "unknown class", line: "/class XII", wantScreen: ScreenClass, wantEntity: "X A", wantErr: true},
		{name: "unknown command", line: "/nope", wantScreen: ScreenClass, wantEntity: "X A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := run(t, testModel(t), tt.line)
			if m.screen != tt.wantScreen || m.currentEntity() != tt.wantEntity {
				t.Fatalf("screen = %v entity = %q, want %v %q", m.screen, m.currentEntity(), tt.wantScreen, tt.wantEntity)
			}
			if m.statusErr != tt.wantErr {
				t.Fatalf("statusErr = %v, want %v (%q)", m.statusErr, tt.wantErr, m.statusMsg)
			}
		})
	}
}

func TestPromptKeys(t *testing.T) {
	m := press(t, testModel(t), "/", "s", "u", "g")
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v, want prompt", m.mode)
	}

	m = press(t, m, "tab")
	if got := m.prompt.Value(); got != "/suggest " {
		t.Fatalf("prompt = %q, want autocomplete", got)
	}

	m = press(t, m, "esc")
	if m.mode != ModeNormal || m.prompt.Value() != "" {
		t.Fatalf("mode = %v prompt = %q, want closed prompt", m.mode, m.prompt.Value())
	}
}

func TestDetailAndSummaryModals(t *testing.T) {
	m := run(t, testModel(t), "/add PAI | Budi | r1")

	m = press(t, m, "enter")
	if m.modalType != ModalDetail || !strings.Contains(m.modalBody, "Lab 1") {
		t.Fatalf("modal = %v body = %q", m.modalType, m.modalBody)
	}
	m = press(t, m, "esc", "w")
	if m.modalType != ModalReport || !strings.Contains(m.modalBody, "Budi: 1/") {
		t.Fatalf("modal = %v body = %q", m.modalType, m.modalBody)
	}
}

func TestErrMsg(t *testing.T) {
	m := testModel(t)
	m.suggesting = true

	updated, _ := m.Update(commands.ErrMsg{Err: &llm.GenerationError{Provider: "ollama", Err: errors.New("timeout")}})
	m = updated.(Model)

	if m.suggesting || !m.statusErr {
		t.Fatalf("suggesting = %v statusErr = %v", m.suggesting, m.statusErr)
	}

	updated, _ = m.Update(commands.ClearStatusMsg{})
	if got := updated.(Model).statusMsg; got != "" {
		t.Fatalf("status = %q, want cleared", got)
	}
}

func TestView(t *testing.T) {
	m := run(t, testModel(t), "/add Matematika | Budi")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = updated.(Model)

	out := m.View()
	for _, want := range []string{"Class", "X A", "Senin", "Selasa", "Matematika", "ISTIRAHAT", "2.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGridText(t *testing.T) {
	m := run(t, testModel(t), "/add Matematika | Budi")
	text := m.gridText()
	if !strings.HasPrefix(text, "class: X A") || !strings.Contains(text, "Matematika / Budi") {
		t.Fatalf("grid text = %q", text)
	}
}

func TestDetectInitState(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg := testConfig()
	cfg.Storage.DBPath = filepath.Join(home, "data", "roster.db")

	state, err := DetectInitState(cfg)
	if err != nil {
		t.Fatalf("DetectInitState: %v", err)
	}
	if !state.NeedsInit || !state.ConfigMissing || !state.DBMissing {
		t.Fatalf("state = %+v, want everything missing", state)
	}

	m := New(nil, cfg, WithInitState(state))
	updated, cmd := m.runInit()
	m = updated.(Model)
	if m.initError != "" {
		t.Fatalf("init error: %s", m.initError)
	}
	t.Cleanup(func() { _ = m.repo.Close() })
	if cmd == nil || m.mode != ModeNormal {
		t.Fatal("expected the session to open after init")
	}

	state, err = DetectInitState(cfg)
	if err != nil {
		t.Fatalf("DetectInitState: %v", err)
	}
	if state.NeedsInit {
		t.Fatalf("state = %+v, want initialized", state)
	}
}
