package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics
	Health   *HealthMetrics

	projectsCreated    metric.Int64Counter
	usersCreated       metric.Int64Counter
	listViewed         metric.Int64Counter
	assignmentsChanged metric.Int64Counter
}

func New(meter metric.Meter, logger *slog.Logger) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Database: database,
		Health:   health,
	}

	m.projectsCreated, err = meter.Int64Counter(
		"teamboard.projects.created",
		metric.WithDescription("Total number of projects created"),
		metric.WithUnit("{project}"),
	)
	if err != nil {
		return nil, err
	}

	m.usersCreated, err = meter.Int64Counter(
		"teamboard.users.created",
		metric.WithDescription("Total number of users created"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.listViewed, err = meter.Int64Counter(
		"teamboard.list.viewed",
		metric.WithDescription("Total number of times a list endpoint was served"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.assignmentsChanged, err = meter.Int64Counter(
		"teamboard.assignments.changed",
		metric.WithDescription("Total number of assignment changes"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

func (m *Metrics) RecordProjectCreation(ctx context.Context) {
	if m != nil && m.projectsCreated != nil {
		m.projectsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordUserCreation(ctx context.Context) {
	if m != nil && m.usersCreated != nil {
		m.usersCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordListViewed(ctx context.Context, resource string) {
	if m != nil && m.listViewed != nil {
		m.listViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("resource", resource)))
	}
}

// RecordAssignmentChange counts an assign or unassign; action is "assign" or
// "unassign", role is the membership kind.
func (m *Metrics) RecordAssignmentChange(ctx context.Context, action, role string) {
	if m != nil && m.assignmentsChanged != nil {
		m.assignmentsChanged.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("role", role),
		))
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
		Health:   &HealthMetrics{dependencies: make(map[string]*DependencyStatus)},
	}
}
