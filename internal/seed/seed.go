package seed

import (
	"context"
	"fmt"
	"log/slog"

	"teamboard/internal/model"

	"github.com/uptrace/bun"
)

// SampleSize is the number of projects and users created by SampleData.
const SampleSize = 15

// SampleData fills an empty store with Project1..Project15 and User1..User15,
// making UserN both assignee and manager of ProjectN. A store that already
// holds projects is left alone. It reports whether anything was inserted.
func SampleData(ctx context.Context, db *bun.DB, logger *slog.Logger) (bool, error) {
	count, err := db.NewSelect().Model((*model.Project)(nil)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count projects: %w", err)
	}
	if count > 0 {
		logger.Info("sample data skipped, store is not empty", "projects", count)
		return false, nil
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		projects := make([]*model.Project, 0, SampleSize)
		users := make([]*model.User, 0, SampleSize)
		for i := 1; i <= SampleSize; i++ {
			projects = append(projects, &model.Project{
				Name:        fmt.Sprintf("Project%d", i),
				Description: model.DefaultDescription,
				Status:      true,
			})
			users = append(users, &model.User{
				Name:       fmt.Sprintf("User%d", i),
				PictureURL: model.DefaultPictureURL,
			})
		}

		if _, err := tx.NewInsert().Model(&projects).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert sample projects: %w", err)
		}
		if _, err := tx.NewInsert().Model(&users).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert sample users: %w", err)
		}

		assignees := make([]*model.UserProject, 0, SampleSize)
		managers := make([]*model.ManagerProject, 0, SampleSize)
		for i := range projects {
			assignees = append(assignees, &model.UserProject{ProjectID: projects[i].ID, UserID: users[i].ID})
			managers = append(managers, &model.ManagerProject{ProjectID: projects[i].ID, UserID: users[i].ID})
		}

		if _, err := tx.NewInsert().Model(&assignees).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert sample assignees: %w", err)
		}
		if _, err := tx.NewInsert().Model(&managers).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert sample managers: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info("sample data inserted", "projects", SampleSize, "users", SampleSize)
	return true, nil
}
