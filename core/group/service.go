package group

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
)

// ErrNotFound is returned by repositories; the Store reports it as a *core.LookupError.
var ErrNotFound = errors.New("group not found")

type (
	Repository interface {
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		// QueryGroups returns every group ordered by creation (ascending numeric id).
		QueryGroups(ctx context.Context) ([]Group, error)
		GetGroup(ctx context.Context, id string) (Group, error)
		// UpdateGroup overwrites every field but the id.
		UpdateGroup(ctx context.Context, grp Group) (Group, error)
		DeleteGroup(ctx context.Context, id string) error
	}

	// Store owns the canonical list of groups. Every successful mutation notifies subscribers.
	Store struct {
		repo     Repository
		validate *validator.Validate

		mu        sync.Mutex // serializes mutations (id issuing in particular)
		subsMu    sync.RWMutex
		listeners []func()
	}
)

func NewStore(repo Repository, validate *validator.Validate) *Store {
	return &Store{repo: repo, validate: validate}
}

// Subscribe registers fn to be called after every successful mutation.
func (s *Store) Subscribe(fn func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.subsMu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.subsMu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) trapNotFound(err error, id, msg string) error {
	if errors.Cause(err) == ErrNotFound {
		return core.NewLookupError("group", id)
	}
	return errors.Wrap(err, msg)
}

// Create adds a group with the next sequential id and no students.
func (s *Store) Create(ctx context.Context, ng NewGroup) (Group, error) {
	if err := ng.Validate(s.validate); err != nil {
		return Group{}, err
	}

	s.mu.Lock()
	groups, err := s.repo.QueryGroups(ctx)
	if err != nil {
		s.mu.Unlock()
		return Group{}, errors.Wrap(err, "querying groups")
	}
	grp := Group{
		ID:          nextID(groups),
		Name:        ng.Name,
		Description: ng.Description,
		Color:       ng.Color,
	}
	grp, err = s.repo.CreateGroup(ctx, grp)
	s.mu.Unlock()
	if err != nil {
		return Group{}, errors.Wrap(err, "creating group")
	}

	s.notify()
	return grp, nil
}

// Update replaces name, description and color of the group `id` in place.
func (s *Store) Update(ctx context.Context, id string, ug UpdateGroup) (Group, error) {
	if err := ug.Validate(s.validate); err != nil {
		return Group{}, err
	}

	s.mu.Lock()
	grp, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return Group{}, s.trapNotFound(err, id, "getting group")
	}
	grp.Name = ug.Name
	grp.Description = ug.Description
	grp.Color = ug.Color
	grp, err = s.repo.UpdateGroup(ctx, grp)
	s.mu.Unlock()
	if err != nil {
		return Group{}, s.trapNotFound(err, id, "updating group")
	}

	s.notify()
	return grp, nil
}

// AdjustStudentCount adds delta to the group's student count, flooring at 0.
func (s *Store) AdjustStudentCount(ctx context.Context, id string, delta int) (Group, error) {
	s.mu.Lock()
	grp, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return Group{}, s.trapNotFound(err, id, "getting group")
	}
	grp.StudentCount += delta
	if grp.StudentCount < 0 {
		grp.StudentCount = 0
	}
	grp, err = s.repo.UpdateGroup(ctx, grp)
	s.mu.Unlock()
	if err != nil {
		return Group{}, s.trapNotFound(err, id, "updating group")
	}

	s.notify()
	return grp, nil
}

// Delete removes the group from the store. Students, homework and events referencing it are left as is.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.repo.DeleteGroup(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return s.trapNotFound(err, id, "deleting group")
	}

	s.notify()
	return nil
}

func (s *Store) List(ctx context.Context) ([]Group, error) {
	groups, err := s.repo.QueryGroups(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	sortGroups(groups)
	return groups, nil
}

func (s *Store) Get(ctx context.Context, id string) (Group, error) {
	grp, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return Group{}, s.trapNotFound(err, id, "getting group")
	}
	return grp, nil
}

// Lookup returns the groups matching ids, in the order of ids.
// The first unknown id is reported as a *core.LookupError.
func (s *Store) Lookup(ctx context.Context, ids ...string) ([]Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	groups, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := Index(groups)
	found := make([]Group, 0, len(ids))
	for _, id := range ids {
		grp, ok := idx[id]
		if !ok {
			return nil, core.NewLookupError("group", id)
		}
		found = append(found, grp)
	}
	return found, nil
}

// nextID returns max(existing numeric ids) + 1, "1" for an empty list.
func nextID(groups []Group) string {
	var max int
	for _, g := range groups {
		if n := g.seq(); n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// sortGroups orders groups by numeric id; insertion order since ids are issued sequentially.
func sortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		si, sj := groups[i].seq(), groups[j].seq()
		if si != sj {
			return si < sj
		}
		return groups[i].ID < groups[j].ID
	})
}
