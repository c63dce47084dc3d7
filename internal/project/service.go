package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamboard/internal/events"
	"teamboard/internal/metrics"
	"teamboard/internal/model"
	"teamboard/internal/pagination"
)

var (
	ErrNoProjects            = errors.New("no projects stored")
	ErrProjectNotFound       = errors.New("project not found")
	ErrNoMatches             = errors.New("no project matches the query")
	ErrPageNotFound          = errors.New("page does not exist")
	ErrDuplicateName         = errors.New("project name already taken")
	ErrActiveProjectNotFound = errors.New("active project not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotAssigned           = errors.New("user is not assigned to project")
)

type ListQuery struct {
	Name string
	Page int
}

type CreateInput struct {
	Name        string `validate:"required"`
	Description string
	// Status defaults to true when nil.
	Status *bool
}

// Patch holds the fields of a modify request. Nil and empty values leave the
// stored field unchanged.
type Patch struct {
	Name        *string
	Description *string
	Status      *bool
}

type Assignment struct {
	ProjectID int
	UserID    int
	AsManager bool
}

type Service interface {
	List(ctx context.Context, query ListQuery) ([]*model.Project, error)
	Get(ctx context.Context, id int) (*model.Project, error)
	Create(ctx context.Context, input CreateInput) (*model.Project, error)
	Modify(ctx context.Context, id int, patch Patch) error
	Assign(ctx context.Context, assignment Assignment) error
	Unassign(ctx context.Context, assignment Assignment) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) List(ctx context.Context, query ListQuery) ([]*model.Project, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if total == 0 {
		return nil, ErrNoProjects
	}

	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := Filter{Name: query.Name}
	paginated := pagination.Paginated(total)
	if paginated {
		filter.Limit = pagination.PageSize
		filter.Offset = pagination.Offset(page)
	} else if page > 1 {
		return nil, ErrPageNotFound
	}

	projects, matched, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if matched == 0 {
		return nil, ErrNoMatches
	}
	if paginated && len(projects) == 0 {
		return nil, ErrPageNotFound
	}

	s.metrics.RecordListViewed(ctx, "projects")
	return projects, nil
}

func (s *service) Get(ctx context.Context, id int) (*model.Project, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if total == 0 {
		return nil, ErrNoProjects
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*model.Project, error) {
	exists, err := s.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      true,
	}
	if project.Description == "" {
		project.Description = model.DefaultDescription
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.metrics.RecordProjectCreation(ctx)
	s.publish(ctx, events.Event{Type: events.ProjectCreated, ProjectID: project.ID, Name: project.Name})
	return project, nil
}

func (s *service) Modify(ctx context.Context, id int, patch Patch) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil && *patch.Name != "" {
		project.Name = *patch.Name
	}
	if patch.Description != nil && *patch.Description != "" {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.ProjectModified, ProjectID: project.ID, Name: project.Name})
	return nil
}

func (s *service) Assign(ctx context.Context, a Assignment) error {
	role, err := s.resolve(ctx, a)
	if err != nil {
		return err
	}

	if err := s.repo.AddAssignment(ctx, role, a.ProjectID, a.UserID); err != nil {
		return fmt.Errorf("failed to assign user %d to project %d: %w", a.UserID, a.ProjectID, err)
	}

	s.metrics.RecordAssignmentChange(ctx, "assign", string(role))
	s.publish(ctx, events.Event{Type: events.ProjectUserAssigned, ProjectID: a.ProjectID, UserID: a.UserID, Role: string(role)})
	return nil
}

func (s *service) Unassign(ctx context.Context, a Assignment) error {
	role, err := s.resolve(ctx, a)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveAssignment(ctx, role, a.ProjectID, a.UserID); err != nil {
		return err
	}

	s.metrics.RecordAssignmentChange(ctx, "unassign", string(role))
	s.publish(ctx, events.Event{Type: events.ProjectUserUnassigned, ProjectID: a.ProjectID, UserID: a.UserID, Role: string(role)})
	return nil
}

// resolve checks that the project is active and the user exists.
func (s *service) resolve(ctx context.Context, a Assignment) (model.Role, error) {
	if _, err := s.repo.FindActive(ctx, a.ProjectID); err != nil {
		return "", err
	}
	if _, err := s.repo.FindUser(ctx, a.UserID); err != nil {
		return "", err
	}
	return model.RoleFor(a.AsManager), nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.ProjectDeleted, ProjectID: id})
	return nil
}

func (s *service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "change event not published", "type", event.Type, "error", err)
	}
}
