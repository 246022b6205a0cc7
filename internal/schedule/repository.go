package schedule

import "context"

// Repository defines the persistence collaborator for the schedule.
type Repository interface {
	// LoadSchedule returns the persisted slots in stored order.
	LoadSchedule(ctx context.Context) ([]Slot, error)

	// SaveSchedule replaces the persisted slots with slots.
	SaveSchedule(ctx context.Context, slots []Slot) error

	// LoadPeriods returns the persisted grid.
	// saved is false if no grid was ever saved.
	LoadPeriods(ctx context.Context) (periods []Period, saved bool, err error)

	// SavePeriods replaces the persisted grid.
	SavePeriods(ctx context.Context, periods []Period) error

	// ListTeachers returns the teacher directory.
	ListTeachers(ctx context.Context) ([]Teacher, error)

	// ListRooms returns the room directory.
	ListRooms(ctx context.Context) ([]Room, error)

	// Close releases any resources held by the repository.
	Close() error
}
