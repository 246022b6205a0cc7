package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/roster/internal/db"
	"github.com/javiermolinar/roster/internal/schedule"
)

func TestImport(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.mustRun(t, "slot", "add", "--day", "Senin", "--period", "1", "--class", "X A", "--subject", "Seni", "--teacher", "t2")

	sourcePath := filepath.Join(t.TempDir(), "source.db")
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		t.Fatalf("creating source repo: %v", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	if err := sourceRepo.SaveTeacher(ctx, schedule.Teacher{ID: "t9", Name: "Rina"}); err != nil {
		t.Fatalf("SaveTeacher failed: %v", err)
	}
	if err := sourceRepo.SavePeriods(ctx, []schedule.Period{
		{ID: 1, Label: "other label"},
		{ID: 4, Label: "09:30 - 10:15"},
	}); err != nil {
		t.Fatalf("SavePeriods failed: %v", err)
	}
	if err := sourceRepo.SaveSchedule(ctx, []schedule.Slot{
		{ID: "s1", Day: "Senin", Period: 1, ClassName: "X A", Subject: "Kimia", TeacherID: "t9"},
		{ID: "s2", Day: "Selasa", Period: 4, ClassName: "X B", Subject: "Fisika", TeacherID: "t9"},
	}); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	out := env.mustRun(t, "import", sourcePath)
	if !strings.Contains(out, "Imported 2 lessons (1 replaced, 1 new), 1 periods, 1 teachers, 0 rooms") {
		t.Fatalf("import output = %q", out)
	}

	slots := env.slots(t)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots in destination, got %d", len(slots))
	}
	for _, s := range slots {
		if s.TeacherID != "t9" {
			t.Errorf("slot %s teacher = %q, want t9", s, s.TeacherID)
		}
	}

	periods, _, err := env.repo.LoadPeriods(ctx)
	if err != nil {
		t.Fatalf("LoadPeriods failed: %v", err)
	}
	for _, p := range periods {
		if p.ID == 1 && p.Label != "07:00 - 07:45" {
			t.Errorf("existing label overwritten: %q", p.Label)
		}
	}

	teachers, err := env.repo.ListTeachers(ctx)
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if len(teachers) != 3 {
		t.Fatalf("expected 3 teachers, got %d", len(teachers))
	}
}

func TestImportRejectsBadSource(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "same database", path: env.cfg.Storage.DBPath, wantErr: "matches current database"},
		{name: "missing file", path: filepath.Join(dir, "missing.db"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", "import", tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "home", input: "~/data/roster.db", want: filepath.Join(home, "data", "roster.db")},
		{name: "bare home", input: "~", want: home},
		{name: "relative", input: "roster.db", want: filepath.Join(wd, "roster.db")},
		{name: "absolute", input: " /tmp/roster.db ", want: "/tmp/roster.db"},
		{name: "empty", input: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePath failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolvePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
