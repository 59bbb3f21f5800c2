package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents returns every student ordered by creation.
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// UpdateStudent overwrites name, email and phone.
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	// Groups is the part of the group store students need: reference checks and student counts.
	Groups interface {
		Lookup(ctx context.Context, ids ...string) ([]group.Group, error)
		AdjustStudentCount(ctx context.Context, id string, delta int) (group.Group, error)
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

// Create saves a new student and bumps the student count of each of its groups.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if _, err := svc.groups.Lookup(ctx, ns.GroupIDs...); err != nil {
		return Student{}, errors.Wrap(err, "looking up student groups")
	}

	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Phone:     ns.Phone,
		GroupIDs:  ns.GroupIDs,
		CreatedAt: time.Now().UTC(),
	}
	if std.GroupIDs == nil {
		std.GroupIDs = []string{}
	}
	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}

	for _, gid := range std.GroupIDs {
		if _, err := svc.groups.AdjustStudentCount(ctx, gid, 1); err != nil {
			return std, errors.Wrap(err, "updating group student count")
		}
	}
	return std, nil
}

func (svc *Service) List(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

// InGroup returns the students of the group `id`, in creation order.
func (svc *Service) InGroup(ctx context.Context, id string) ([]Student, error) {
	students, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]Student, 0, len(students))
	for _, std := range students {
		if std.InGroup(id) {
			members = append(members, std)
		}
	}
	return members, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, core.NewLookupError("student", id)
		}
		return Student{}, errors.Wrap(err, "getting student")
	}
	return std, nil
}

// Update changes the contact details of a student; group membership is left as is.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	std, err := svc.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.Name = us.Name
	std.Email = us.Email
	std.Phone = us.Phone
	if std, err = svc.repo.UpdateStudent(ctx, std); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, core.NewLookupError("student", id)
		}
		return Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

// Delete removes the student and decrements the counts of the groups that still exist.
func (svc *Service) Delete(ctx context.Context, id string) error {
	std, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteStudent(ctx, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	for _, gid := range std.GroupIDs {
		if _, err = svc.groups.AdjustStudentCount(ctx, gid, -1); err != nil && !core.IsLookup(err) {
			return errors.Wrap(err, "updating group student count")
		}
	}
	return nil
}
