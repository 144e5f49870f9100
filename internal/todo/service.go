package todo

import (
	"context"
	"fmt"
	"strings"

	"todolist/internal/models"
)

// Store defines the owner-scoped persistence operations the service
// needs. Every method that takes an id must filter by id AND owner in
// a single predicate and report ErrNotFound when nothing matches.
type Store interface {
	Insert(ctx context.Context, t *models.Todo) (*models.Todo, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Todo, error)
	Toggle(ctx context.Context, userID, id string) (*models.Todo, error)
	Update(ctx context.Context, userID, id string, in models.TodoInput) (*models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// Service enforces field validation and ownership scoping over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's tasks, most recently created first. No tasks
// is an empty slice, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]models.Todo, error) {
	todos, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// Create validates the input and inserts a new task owned by userID.
// A description that is empty after trimming is silently ignored and
// returns (nil, nil); the UI treats this as a non-event and only needs
// the redirect back to the list.
func (s *Service) Create(ctx context.Context, userID string, in models.TodoInput) (*models.Todo, error) {
	in.Task = strings.TrimSpace(in.Task)
	if in.Task == "" {
		return nil, nil
	}

	norm, err := validate(in)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, &models.Todo{
		UserID:   userID,
		Task:     norm.Task,
		Time:     norm.Time,
		Category: norm.Category,
		Priority: norm.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return created, nil
}

// Toggle flips the completed flag and returns the updated task. The
// flip happens in a single atomic store update.
func (s *Service) Toggle(ctx context.Context, userID, id string) (*models.Todo, error) {
	return s.store.Toggle(ctx, userID, id)
}

// Update replaces description, time, category, and priority (never the
// completed flag), re-validating every constraint. Unlike Create, a
// blank description here is a validation error.
func (s *Service) Update(ctx context.Context, userID, id string, in models.TodoInput) (*models.Todo, error) {
	in.Task = strings.TrimSpace(in.Task)
	if in.Task == "" {
		return nil, fmt.Errorf("%w: task is required", ErrValidation)
	}

	norm, err := validate(in)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, userID, id, norm)
}

// Delete permanently removes the task. There is no soft delete.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

// validate normalizes defaults and checks every field constraint. The
// store trusts its output; this is the only validation layer.
func validate(in models.TodoInput) (models.TodoInput, error) {
	if len(in.Task) > 500 {
		return in, fmt.Errorf("%w: task exceeds 500 characters", ErrValidation)
	}

	if in.Category == "" {
		in.Category = models.CategoryGeneral
	} else if !models.ValidCategory(in.Category) {
		return in, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	} else if !models.ValidPriority(in.Priority) {
		return in, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}

	if in.Time != "" && !models.TimePattern.MatchString(in.Time) {
		return in, fmt.Errorf("%w: time must be in HH:MM format", ErrValidation)
	}

	return in, nil
}
