package domain

import "context"

//go:generate mockgen -source=pin_repository.go -destination=pin_repository_mock.go -package=domain

// PinRepository is the persistence backend behind the pin store. IDs and
// timestamps are assigned before Save is called.
type PinRepository interface {
	Save(ctx context.Context, pin *Pin) error
	FindAll(ctx context.Context) ([]*Pin, error)
	FindLatestBySubject(ctx context.Context, subjectID string) (*Pin, error)
	Delete(ctx context.Context, id string) (*Pin, error)
	DeleteAll(ctx context.Context) (int, error)
}
