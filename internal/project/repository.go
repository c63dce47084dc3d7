package project

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"teamboard/internal/db"
	"teamboard/internal/metrics"
	"teamboard/internal/model"

	"github.com/uptrace/bun"
)

// Filter narrows a listing. A zero Limit returns every match.
type Filter struct {
	Name   string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context) (int, error)
	// List returns the requested window and the number of rows matching the
	// filter regardless of the window.
	List(ctx context.Context, filter Filter) ([]*model.Project, int, error)
	GetByID(ctx context.Context, id int) (*model.Project, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id int) error
	FindActive(ctx context.Context, id int) (*model.Project, error)
	FindUser(ctx context.Context, id int) (*model.User, error)
	AddAssignment(ctx context.Context, role model.Role, projectID, userID int) error
	RemoveAssignment(ctx context.Context, role model.Role, projectID, userID int) error
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

func withMembers(q *bun.SelectQuery) *bun.SelectQuery {
	byID := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.id ASC")
	}
	return q.Relation("AssignedUsers", byID).Relation("AssignedManagers", byID)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().Model((*model.Project)(nil)).Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "count", "projects", time.Since(start), err)

	return count, err
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*model.Project, int, error) {
	start := time.Now()
	projects := make([]*model.Project, 0)

	q := withMembers(r.db.NewSelect().Model(&projects)).OrderExpr("p.id ASC")
	if filter.Name != "" {
		q = q.Where("p.name LIKE ?", "%"+escapeLike(filter.Name)+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	count, err := q.ScanAndCount(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	if err != nil {
		return nil, 0, err
	}
	return projects, count, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	start := time.Now()
	project := new(model.Project)
	err := withMembers(r.db.NewSelect().Model(project)).Where("p.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*model.Project)(nil)).Where("name = ?", name).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "exists", "projects", time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, project *model.Project) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(project).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "projects", time.Since(start), err)

	if db.IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) Update(ctx context.Context, project *model.Project) error {
	start := time.Now()
	result, err := r.db.NewUpdate().Model(project).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "projects", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return requireRow(result, ErrProjectNotFound)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model((*model.Project)(nil)).Where("id = ?", id).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "projects", time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result, ErrProjectNotFound)
}

func (r *repository) FindActive(ctx context.Context, id int) (*model.Project, error) {
	start := time.Now()
	project := new(model.Project)
	err := r.db.NewSelect().Model(project).
		Where("id = ?", id).
		Where("status = ?", true).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActiveProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) FindUser(ctx context.Context, id int) (*model.User, error) {
	start := time.Now()
	user := new(model.User)
	err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) AddAssignment(ctx context.Context, role model.Role, projectID, userID int) error {
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(role.Membership(projectID, userID)).
		On("CONFLICT DO NOTHING").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", membershipTable(role), time.Since(start), err)

	return err
}

func (r *repository) RemoveAssignment(ctx context.Context, role model.Role, projectID, userID int) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model(role.Table()).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", membershipTable(role), time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result, ErrNotAssigned)
}

func membershipTable(role model.Role) string {
	if role == model.RoleManager {
		return "manager_projects"
	}
	return "user_projects"
}

func requireRow(result sql.Result, missing error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return missing
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes every character of term match literally under the default
// LIKE escape character.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
