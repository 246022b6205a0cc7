package view

import (
	"reflect"
	"strings"
	"testing"

	"github.com/javiermolinar/roster/internal/schedule"
)

func testGrid() *schedule.Grid {
	return schedule.NewGrid(
		schedule.Period{ID: 1, Label: "07:00 - 07:45"},
		schedule.Period{ID: 2, Label: "07:45 - 08:30"},
		schedule.Period{ID: 2.5, Label: schedule.BreakLabel, Break: true},
		schedule.Period{ID: 3, Label: "08:45 - 09:30"},
	)
}

func testDir() *schedule.Directory {
	return schedule.NewDirectory(
		[]schedule.Teacher{
			{ID: "t1", Name: "Budi Santoso, S.Pd."},
			{ID: "t2", Name: "Siti Aminah"},
		},
		[]schedule.Room{
			{ID: "r1", Name: "R. 1"},
			{ID: "r2", Name: "Lab Komputer"},
		},
	)
}

var testDays = []string{"Senin", "Selasa"}

func TestByClass(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 1, ClassName: "X A", Subject: "Matematika", TeacherID: "t1", RoomID: "r1"},
		{ID: "b", Day: "Selasa", Period: 3, ClassName: "X A", Subject: "Fisika", TeacherID: "ghost"},
		{ID: "c", Day: "Senin", Period: 1, ClassName: "X B", Subject: "PKN", TeacherID: "t2"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	table := p.ByClass("X A")

	if len(table.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Rows))
	}
	if table.Rows[2].Period.ID != 2.5 {
		t.Errorf("expected break row third, got %v", table.Rows[2].Period.ID)
	}

	cell, ok := table.Cell("Senin", 1)
	if !ok || cell.Empty() {
		t.Fatal("expected an occupied cell on Senin 1")
	}
	if cell.Title != "Matematika" || cell.Subtitle != "Budi Santoso, S.Pd." {
		t.Errorf("unexpected cell text: %q / %q", cell.Title, cell.Subtitle)
	}
	if cell.Room != "R. 1" {
		t.Errorf("expected room name, got %q", cell.Room)
	}

	unknown, _ := table.Cell("Selasa", 3)
	if unknown.Subtitle != schedule.UnknownName {
		t.Errorf("expected dangling teacher to render as %q, got %q", schedule.UnknownName, unknown.Subtitle)
	}

	empty, _ := table.Cell("Selasa", 1)
	if !empty.Empty() {
		t.Error("expected empty cell on Selasa 1")
	}

	brk, _ := table.Cell("Senin", 2.5)
	if !brk.Empty() || brk.Title != schedule.BreakLabel {
		t.Errorf("expected break cell labelled %q, got %+v", schedule.BreakLabel, brk)
	}
}

func TestByTeacherMarksConflicts(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 2, ClassName: "X A", Subject: "Matematika", TeacherID: "t1"},
		{ID: "b", Day: "Senin", Period: 2, ClassName: "X B", Subject: "Matematika", TeacherID: "t1"},
		{ID: "c", Day: "Selasa", Period: 1, ClassName: "X C", Subject: "Matematika", TeacherID: "t1"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	table := p.ByTeacher("t1")
	if table.Title != "Budi Santoso, S.Pd." {
		t.Errorf("unexpected title %q", table.Title)
	}

	cell, _ := table.Cell("Senin", 2)
	if !cell.Conflicting {
		t.Error("expected conflicting cell")
	}
	if cell.Extra != 1 {
		t.Errorf("expected one extra slot, got %d", cell.Extra)
	}
	if cell.Title != "X A" || cell.Subtitle != "Matematika" {
		t.Errorf("unexpected cell text: %q / %q", cell.Title, cell.Subtitle)
	}

	free, _ := table.Cell("Selasa", 1)
	if free.Conflicting {
		t.Error("expected free cell not to be conflicting")
	}
}

func TestByRoomUsesShortTeacherName(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 1, ClassName: "X A", Subject: "Informatika", TeacherID: "t1", RoomID: "r2"},
		{ID: "b", Day: "Senin", Period: 2, ClassName: "X B", Subject: "Informatika", TeacherID: "t2"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	table := p.ByRoom("r2")
	cell, _ := table.Cell("Senin", 1)
	if cell.Title != "X A" || cell.Subtitle != "Informatika (Budi Santoso)" {
		t.Errorf("unexpected cell text: %q / %q", cell.Title, cell.Subtitle)
	}

	none := p.ByRoom("")
	for _, r := range none.Rows {
		for _, c := range r.Cells {
			if !c.Empty() {
				t.Errorf("slots without a room must not show in a room view: %+v", c.Slot)
			}
		}
	}
}

func TestSlotsOnBreakRow(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 2.5, ClassName: "X A", Subject: "PAI", TeacherID: "t1"},
		{ID: "b", Day: "Senin", Period: 2.5, ClassName: "X B", Subject: "PKN", TeacherID: "t1"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	table := p.ByTeacher("t1")
	cell, _ := table.Cell("Senin", 2.5)
	if cell.Empty() || cell.Slot.ID != "a" || cell.Extra != 1 {
		t.Fatalf("break row lost its slots: %+v", cell)
	}
	if !cell.Conflicting {
		t.Error("expected double-booked break cell to be conflicting")
	}
	if got := CellText(cell); got != "!X A / PAI +1" {
		t.Errorf("CellText() = %q", got)
	}
	if len(table.Orphans) != 0 {
		t.Errorf("break slots are not orphans: %+v", table.Orphans)
	}

	other, _ := table.Cell("Selasa", 2.5)
	if !other.Empty() || other.Title != schedule.BreakLabel {
		t.Errorf("expected plain break cell, got %+v", other)
	}
	if out := RenderText(table, 0); !strings.Contains(out, "!X A / PAI +1") {
		t.Errorf("rendered table hides the break lesson:\n%s", out)
	}
}

func TestOrphanedSlots(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 9, ClassName: "X A", Subject: "PAI", TeacherID: "t1"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	table := p.ByClass("X A")
	if len(table.Orphans) != 1 || table.Orphans[0].ID != "a" {
		t.Errorf("expected slot a as orphan, got %+v", table.Orphans)
	}
}

func TestRoomOccupancy(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 1, ClassName: "X A", TeacherID: "t1", RoomID: "r1"},
		{ID: "b", Day: "Senin", Period: 1, ClassName: "X B", TeacherID: "t2", RoomID: "r1"},
		{ID: "c", Day: "Senin", Period: 2, ClassName: "X C", TeacherID: "t2", RoomID: "r9"},
		{ID: "d", Day: "Selasa", Period: 1, ClassName: "X D", TeacherID: "t2", RoomID: "r2"},
		{ID: "e", Day: "Senin", Period: 3, ClassName: "X E", TeacherID: "t2"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	occ := p.RoomOccupancy("Senin")

	var ids []string
	for _, r := range occ.Rooms {
		ids = append(ids, r.RoomID)
	}
	if want := []string{"r1", "r2", "r9"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("room order = %v, want %v", ids, want)
	}
	if occ.Rooms[2].Name != schedule.UnknownName {
		t.Errorf("expected unknown room name, got %q", occ.Rooms[2].Name)
	}

	double := occ.DoubleBooked()
	if len(double) != 1 {
		t.Fatalf("expected 1 double-booked cell, got %d", len(double))
	}
	if double[0].RoomID != "r1" || double[0].Period.ID != 1 || len(double[0].Slots) != 2 {
		t.Errorf("unexpected double-booked cell: %+v", double[0])
	}

	for _, c := range occ.Rooms[1].Cells {
		if len(c.Slots) != 0 {
			t.Errorf("r2 must be empty on Senin, got %+v", c.Slots)
		}
	}
	if occ.Empty() {
		t.Error("Senin occupancy reported empty")
	}

	rabu := p.RoomOccupancy("Rabu")
	if len(rabu.Rooms) != 3 {
		t.Errorf("expected every room listed on an empty day, got %d", len(rabu.Rooms))
	}
	if !rabu.Empty() {
		t.Error("Rabu occupancy must be empty")
	}
}

func TestSelectionLists(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", ClassName: "XII B", TeacherID: "zz", RoomID: "r7"},
		{ID: "b", ClassName: "X A", TeacherID: "t1"},
	}
	dir := testDir()

	if got := ClassNames([]string{"X A", "X B"}, slots); !reflect.DeepEqual(got, []string{"X A", "X B", "XII B"}) {
		t.Errorf("ClassNames = %v", got)
	}
	if got := TeacherIDs(dir, slots); !reflect.DeepEqual(got, []string{"t1", "t2", "zz"}) {
		t.Errorf("TeacherIDs = %v", got)
	}
	if got := RoomIDs(dir, slots); !reflect.DeepEqual(got, []string{"r1", "r2", "r7"}) {
		t.Errorf("RoomIDs = %v", got)
	}
}

func TestRenderText(t *testing.T) {
	slots := []schedule.Slot{
		{ID: "a", Day: "Senin", Period: 1, ClassName: "X A", Subject: "Matematika", TeacherID: "t1"},
		{ID: "b", Day: "Senin", Period: 1, ClassName: "X B", Subject: "Fisika", TeacherID: "t1"},
	}
	p := NewProjector(slots, testGrid(), testDays, testDir())

	out := RenderText(p.ByClass("X A"), 0)

	for _, want := range []string{"class: X A", "Senin", "Selasa", ConflictMark + "Matematika", schedule.BreakLabel} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestCellText(t *testing.T) {
	slot := schedule.Slot{ID: "a"}
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"empty", Cell{}, ""},
		{"break", Cell{Period: schedule.Period{ID: 4.5, Break: true}}, "-"},
		{"plain", Cell{Slot: &slot, Title: "PAI", Subtitle: "Budi"}, "PAI / Budi"},
		{"conflict with extra", Cell{Slot: &slot, Title: "PAI", Conflicting: true, Extra: 2}, "!PAI +2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellText(tt.cell); got != tt.want {
				t.Errorf("CellText() = %q, want %q", got, tt.want)
			}
		})
	}
}
