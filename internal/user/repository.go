package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"teamboard/internal/db"
	"teamboard/internal/metrics"
	"teamboard/internal/model"

	"github.com/uptrace/bun"
)

type Repository interface {
	Count(ctx context.Context) (int, error)
	// List returns every user when limit is zero.
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	if m == nil {
		m = metrics.NewMock()
	}
	return &repository{
		db:      db,
		metrics: m,
	}
}

func withProjects(q *bun.SelectQuery) *bun.SelectQuery {
	byID := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.id ASC")
	}
	return q.Relation("AssignedUserProjects", byID).Relation("AssignedManagerProjects", byID)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().Model((*model.User)(nil)).Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "count", "users", time.Since(start), err)

	return count, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	start := time.Now()
	users := make([]*model.User, 0)

	q := withProjects(r.db.NewSelect().Model(&users)).OrderExpr("u.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*model.User, error) {
	start := time.Now()
	user := new(model.User)
	err := withProjects(r.db.NewSelect().Model(user)).Where("u.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*model.User)(nil)).Where("name = ?", name).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "exists", "users", time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, user *model.User) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	if db.IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) Update(ctx context.Context, user *model.User) error {
	start := time.Now()
	result, err := r.db.NewUpdate().Model(user).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "users", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model((*model.User)(nil)).Where("id = ?", id).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "users", time.Since(start), err)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
