package homework

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
)

var (
	ErrNotFound = errors.New("homework not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateHomework(ctx context.Context, hw Homework) (Homework, error)
		// QueryHomework returns every homework ordered by creation.
		QueryHomework(ctx context.Context) ([]Homework, error)
		GetHomework(ctx context.Context, id string) (Homework, error)
		// UpdateHomework overwrites title, description and group.
		UpdateHomework(ctx context.Context, hw Homework) (Homework, error)
		DeleteHomework(ctx context.Context, id string) error
	}

	Groups interface {
		Lookup(ctx context.Context, ids ...string) ([]group.Group, error)
	}

	Service struct {
		repo     Repository
		groups   Groups
		validate *validator.Validate
	}
)

func NewService(repo Repository, groups Groups, validate *validator.Validate) *Service {
	return &Service{repo: repo, groups: groups, validate: validate}
}

// Create assigns homework, due 7 days from now and pending.
func (svc *Service) Create(ctx context.Context, nh NewHomework) (Homework, error) {
	if err := nh.Validate(svc.validate); err != nil {
		return Homework{}, err
	}
	if nh.GroupID != AllGroups {
		if _, err := svc.groups.Lookup(ctx, nh.GroupID); err != nil {
			return Homework{}, errors.Wrap(err, "looking up homework group")
		}
	}

	now := nowFunc().UTC()
	hw := Homework{
		Title:       nh.Title,
		Description: nh.Description,
		GroupID:     nh.GroupID,
		DueDate:     now.Add(DueIn),
		Status:      StatusPending,
		Submissions: []Submission{},
		CreatedBy:   nh.CreatedBy,
		CreatedAt:   now,
	}
	hw, err := svc.repo.CreateHomework(ctx, hw)
	if err != nil {
		return Homework{}, errors.Wrap(err, "creating homework")
	}
	return hw, nil
}

func (svc *Service) List(ctx context.Context) ([]Homework, error) {
	hws, err := svc.repo.QueryHomework(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying homework")
	}
	return hws, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Homework, error) {
	hw, err := svc.repo.GetHomework(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Homework{}, core.NewLookupError("homework", id)
		}
		return Homework{}, errors.Wrap(err, "getting homework")
	}
	return hw, nil
}

func (svc *Service) Update(ctx context.Context, id string, uh UpdateHomework) (Homework, error) {
	if err := uh.Validate(svc.validate); err != nil {
		return Homework{}, err
	}
	hw, err := svc.Get(ctx, id)
	if err != nil {
		return Homework{}, err
	}
	if uh.GroupID != AllGroups && uh.GroupID != hw.GroupID {
		if _, err = svc.groups.Lookup(ctx, uh.GroupID); err != nil {
			return Homework{}, errors.Wrap(err, "looking up homework group")
		}
	}
	hw.Title = uh.Title
	hw.Description = uh.Description
	hw.GroupID = uh.GroupID
	if hw, err = svc.repo.UpdateHomework(ctx, hw); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Homework{}, core.NewLookupError("homework", id)
		}
		return Homework{}, errors.Wrap(err, "updating homework")
	}
	return hw, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteHomework(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewLookupError("homework", id)
		}
		return errors.Wrap(err, "deleting homework")
	}
	return nil
}
