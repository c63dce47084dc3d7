package user_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"teamboard/internal/events"
	"teamboard/internal/logger"
	"teamboard/internal/metrics"
	"teamboard/internal/model"
	"teamboard/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepository answers every call from its fields.
type stubRepository struct {
	count   int
	err     error
	created *model.User
}

func (s *stubRepository) Count(ctx context.Context) (int, error) { return s.count, s.err }

func (s *stubRepository) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	return nil, s.err
}

func (s *stubRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return nil, user.ErrUserNotFound
}

func (s *stubRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (s *stubRepository) Create(ctx context.Context, u *model.User) error {
	u.ID = 7
	s.created = u
	return nil
}

func (s *stubRepository) Update(ctx context.Context, u *model.User) error { return nil }

func (s *stubRepository) Delete(ctx context.Context, id int) error { return nil }

type capturePublisher struct {
	got []events.Event
}

func (c *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	c.got = append(c.got, event)
	return nil
}

func TestCreateDefaultsPicture(t *testing.T) {
	repo := &stubRepository{}
	publisher := &capturePublisher{}
	service := user.NewService(repo, publisher, metrics.NewMock(), logger.Discard())

	created, err := service.Create(context.Background(), user.CreateInput{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPictureURL, created.PictureURL)
	assert.Equal(t, model.DefaultPictureURL, repo.created.PictureURL)

	require.Len(t, publisher.got, 1)
	assert.Equal(t, events.UserCreated, publisher.got[0].Type)
	assert.Equal(t, 7, publisher.got[0].UserID)
	assert.False(t, publisher.got[0].OccurredAt.IsZero())
}

func TestReadPathStoreFailure(t *testing.T) {
	repo := &stubRepository{err: errors.New("connection refused")}
	service := user.NewService(repo, nil, metrics.NewMock(), logger.Discard())
	router := chi.NewRouter()
	user.NewHandler(service, logger.Discard()).RegisterRoutes(router)

	w := request(t, router, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = request(t, router, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListRejectsPageBeyondSmallStore(t *testing.T) {
	service := user.NewService(&stubRepository{count: 3}, nil, metrics.NewMock(), logger.Discard())

	_, err := service.List(context.Background(), 2)
	assert.ErrorIs(t, err, user.ErrPageNotFound)
}
