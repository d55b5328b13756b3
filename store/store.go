// Package store provides the persistence collaborators used by the native
// import/export pipeline. Entities are persisted as documents; the pipeline
// only relies on Add, Get, Edit and Find.
package store

import (
	"context"
	"io"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get and Edit when the entity does not exist.
var ErrNotFound = errors.New("not found")

// Entity is implemented by every persisted model type.
type Entity interface {
	GetID() int64
	SetID(int64)
}

// Repository is the persistence API of one entity type.
type Repository[T Entity] interface {
	// Add persists a new entity, assigns a fresh ID to it and returns it.
	// Any ID already set on the entity is ignored.
	Add(ctx context.Context, v T) (int64, error)
	Get(ctx context.Context, id int64) (T, error)
	Edit(ctx context.Context, v T) error
	// Find returns the entities accepted by match, in ID order.
	Find(ctx context.Context, match func(T) bool) ([]T, error)
}

// Store bundles the repositories of every entity type.
type Store struct {
	Contexts          Repository[*model.Context]
	Users             Repository[*model.User]
	Submissions       Repository[*model.Submission]
	Publications      Repository[*model.Publication]
	Authors           Repository[*model.Author]
	Galleys           Repository[*model.Galley]
	SubmissionFiles   Repository[*model.SubmissionFile]
	Files             Repository[*model.File]
	ReviewRounds      Repository[*model.ReviewRound]
	ReviewAssignments Repository[*model.ReviewAssignment]
	ReviewForms       Repository[*model.ReviewForm]
	Queries           Repository[*model.Query]
	Notes             Repository[*model.Note]
	DOIs              Repository[*model.DOI]

	closer io.Closer
}

// Close releases the underlying backend, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// First returns the first entity accepted by match or ErrNotFound.
func First[T Entity](ctx context.Context, r Repository[T], match func(T) bool) (T, error) {
	var zero T
	items, err := r.Find(ctx, match)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// ContextByPath looks up a context by its URL path.
func (s *Store) ContextByPath(ctx context.Context, path string) (*model.Context, error) {
	return First(ctx, s.Contexts, func(c *model.Context) bool { return c.Path == path })
}

// UserByUsername looks up a user account.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return First(ctx, s.Users, func(u *model.User) bool { return u.Username == username })
}

// entityPointer lets the generic constructors allocate a T behind a PT.
type entityPointer[T any] interface {
	*T
	Entity
}
