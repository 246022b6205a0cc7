package schedule

import (
	"sort"
	"strings"
)

// UnknownName is shown for references that do not resolve.
const UnknownName = "Unknown"

// Teacher is a read-only directory entry.
type Teacher struct {
	ID            string
	Name          string
	NIP           string
	Subjects      []string
	MaxHours      int
	TeachingHours int
}

// ShortName returns the name without academic titles ("Budi, S.Pd." -> "Budi").
func (t Teacher) ShortName() string {
	name, _, _ := strings.Cut(t.Name, ",")
	return strings.TrimSpace(name)
}

// Room is a read-only directory entry.
type Room struct {
	ID       string
	Name     string
	Type     string
	Capacity int
}

// Directory resolves teacher and room references at read time.
// A nil *Directory resolves nothing.
type Directory struct {
	teachers []Teacher
	rooms    []Room
	teacher  map[string]int
	room     map[string]int
	byName   map[string]string
}

// NewDirectory indexes the given teachers and rooms.
func NewDirectory(teachers []Teacher, rooms []Room) *Directory {
	d := &Directory{
		teachers: append([]Teacher(nil), teachers...),
		rooms:    append([]Room(nil), rooms...),
		teacher:  make(map[string]int, len(teachers)),
		room:     make(map[string]int, len(rooms)),
		byName:   make(map[string]string, len(teachers)),
	}
	for i, t := range d.teachers {
		d.teacher[t.ID] = i
		name := strings.TrimSpace(t.Name)
		if _, taken := d.byName[name]; !taken {
			d.byName[name] = t.ID
		}
	}
	for i, r := range d.rooms {
		d.room[r.ID] = i
	}
	return d
}

// Teachers returns the teachers in directory order.
func (d *Directory) Teachers() []Teacher {
	if d == nil {
		return nil
	}
	return append([]Teacher(nil), d.teachers...)
}

// Rooms returns the rooms in directory order.
func (d *Directory) Rooms() []Room {
	if d == nil {
		return nil
	}
	return append([]Room(nil), d.rooms...)
}

// Teacher looks a teacher up by ID.
func (d *Directory) Teacher(id string) (Teacher, bool) {
	if d == nil {
		return Teacher{}, false
	}
	i, ok := d.teacher[id]
	if !ok {
		return Teacher{}, false
	}
	return d.teachers[i], true
}

// Room looks a room up by ID.
func (d *Directory) Room(id string) (Room, bool) {
	if d == nil {
		return Room{}, false
	}
	i, ok := d.room[id]
	if !ok {
		return Room{}, false
	}
	return d.rooms[i], true
}

// TeacherName returns the teacher's name or UnknownName.
func (d *Directory) TeacherName(id string) string {
	if t, ok := d.Teacher(id); ok {
		return t.Name
	}
	return UnknownName
}

// TeacherShortName returns the teacher's short name or UnknownName.
func (d *Directory) TeacherShortName(id string) string {
	if t, ok := d.Teacher(id); ok {
		return t.ShortName()
	}
	return UnknownName
}

// RoomName returns the room's name, "" for no room, or UnknownName.
func (d *Directory) RoomName(id string) string {
	if id == "" {
		return ""
	}
	if r, ok := d.Room(id); ok {
		return r.Name
	}
	return UnknownName
}

// ResolveTeacher maps an exact teacher name to its ID.
// When two teachers share a name the first one wins.
func (d *Directory) ResolveTeacher(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	id, ok := d.byName[strings.TrimSpace(name)]
	return id, ok
}

// ActiveTeachers returns teachers with teaching hours, heaviest load first,
// capped at limit (0 means no cap).
func (d *Directory) ActiveTeachers(limit int) []Teacher {
	var active []Teacher
	for _, t := range d.Teachers() {
		if t.TeachingHours > 0 {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].TeachingHours > active[j].TeachingHours
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}
