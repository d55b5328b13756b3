package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/pkg/errors"
)

// NewMemory returns a store that keeps every entity in memory. Entities are
// copied in and out as JSON so callers never share state with the store.
func NewMemory() *Store {
	return &Store{
		Contexts:          newMemoryRepository[model.Context](),
		Users:             newMemoryRepository[model.User](),
		Submissions:       newMemoryRepository[model.Submission](),
		Publications:      newMemoryRepository[model.Publication](),
		Authors:           newMemoryRepository[model.Author](),
		Galleys:           newMemoryRepository[model.Galley](),
		SubmissionFiles:   newMemoryRepository[model.SubmissionFile](),
		Files:             newMemoryRepository[model.File](),
		ReviewRounds:      newMemoryRepository[model.ReviewRound](),
		ReviewAssignments: newMemoryRepository[model.ReviewAssignment](),
		ReviewForms:       newMemoryRepository[model.ReviewForm](),
		Queries:           newMemoryRepository[model.Query](),
		Notes:             newMemoryRepository[model.Note](),
		DOIs:              newMemoryRepository[model.DOI](),
	}
}

type memoryRepository[PT Entity] struct {
	newT func() PT
	rows map[int64][]byte
	next int64
	sync.RWMutex
}

var _ Repository[*model.Author] = (*memoryRepository[*model.Author])(nil)

func newMemoryRepository[T any, PT entityPointer[T]]() *memoryRepository[PT] {
	return &memoryRepository[PT]{
		newT: func() PT { return PT(new(T)) },
		rows: make(map[int64][]byte),
	}
}

func (r *memoryRepository[PT]) Add(_ context.Context, v PT) (int64, error) {
	r.Lock()
	defer r.Unlock()
	r.next++
	v.SetID(r.next)
	blob, err := json.Marshal(v)
	if err != nil {
		v.SetID(0)
		r.next--
		return 0, errors.Wrap(err, "encoding entity")
	}
	r.rows[r.next] = blob
	return r.next, nil
}

func (r *memoryRepository[PT]) Get(_ context.Context, id int64) (PT, error) {
	r.RLock()
	blob, ok := r.rows[id]
	r.RUnlock()
	if !ok {
		var zero PT
		return zero, ErrNotFound
	}
	return r.decode(blob)
}

func (r *memoryRepository[PT]) Edit(_ context.Context, v PT) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.rows[v.GetID()]; !ok {
		return ErrNotFound
	}
	blob, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding entity")
	}
	r.rows[v.GetID()] = blob
	return nil
}

func (r *memoryRepository[PT]) Find(_ context.Context, match func(PT) bool) ([]PT, error) {
	r.RLock()
	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	blobs := make([][]byte, len(ids))
	for i, id := range ids {
		blobs[i] = r.rows[id]
	}
	r.RUnlock()

	var items []PT
	for _, blob := range blobs {
		v, err := r.decode(blob)
		if err != nil {
			return nil, err
		}
		if match == nil || match(v) {
			items = append(items, v)
		}
	}
	return items, nil
}

func (r *memoryRepository[PT]) decode(blob []byte) (PT, error) {
	v := r.newT()
	if err := json.Unmarshal(blob, v); err != nil {
		var zero PT
		return zero, errors.Wrap(err, "decoding entity")
	}
	return v, nil
}
