package user

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
	ErrNoUsers       = errors.New("no users stored")
	ErrUserNotFound  = errors.New("user not found")
	ErrPageNotFound  = errors.New("page does not exist")
	ErrDuplicateName = errors.New("user name already taken")
)

type CreateInput struct {
	Name       string `validate:"required"`
	PictureURL string
}

type Patch struct {
	Name       *string
	PictureURL *string
}

type Service interface {
	List(ctx context.Context, page int) ([]*model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, input CreateInput) (*model.User, error)
	Modify(ctx context.Context, id int, patch Patch) error
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

func (s *service) List(ctx context.Context, page int) ([]*model.User, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		return nil, ErrNoUsers
	}
	if page < 1 {
		page = 1
	}

	var users []*model.User
	if pagination.Paginated(total) {
		users, err = s.repo.List(ctx, pagination.PageSize, pagination.Offset(page))
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			return nil, ErrPageNotFound
		}
	} else {
		if page > 1 {
			return nil, ErrPageNotFound
		}
		users, err = s.repo.List(ctx, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
	}

	s.metrics.RecordListViewed(ctx, "users")
	return users, nil
}

func (s *service) Get(ctx context.Context, id int) (*model.User, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		return nil, ErrNoUsers
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*model.User, error) {
	exists, err := s.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check user name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	user := &model.User{
		Name:       input.Name,
		PictureURL: input.PictureURL,
	}
	if user.PictureURL == "" {
		user.PictureURL = model.DefaultPictureURL
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.metrics.RecordUserCreation(ctx)
	s.publish(ctx, events.Event{Type: events.UserCreated, UserID: user.ID, Name: user.Name})
	return user, nil
}

func (s *service) Modify(ctx context.Context, id int, patch Patch) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil && *patch.Name != "" {
		user.Name = *patch.Name
	}
	if patch.PictureURL != nil && *patch.PictureURL != "" {
		user.PictureURL = *patch.PictureURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.UserModified, UserID: user.ID, Name: user.Name})
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.UserDeleted, UserID: id})
	return nil
}

func (s *service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "change event not published", "type", event.Type, "error", err)
	}
}
