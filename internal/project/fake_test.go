package project_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"teamboard/internal/events"
	"teamboard/internal/model"
	"teamboard/internal/project"
)

// memoryRepository keeps projects, users and memberships in maps.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int
	projects map[int]*model.Project
	users    map[int]*model.User
	members  map[model.Role]map[[2]int]bool
	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		nextID:   1,
		projects: make(map[int]*model.Project),
		users:    make(map[int]*model.User),
		members: map[model.Role]map[[2]int]bool{
			model.RoleAssignee: {},
			model.RoleManager:  {},
		},
	}
}

func (m *memoryRepository) addUser(id int, name string) {
	m.users[id] = &model.User{ID: id, Name: name, PictureURL: model.DefaultPictureURL}
}

func (m *memoryRepository) withMembers(p *model.Project) *model.Project {
	out := *p
	out.AssignedUsers = m.usersFor(model.RoleAssignee, p.ID)
	out.AssignedManagers = m.usersFor(model.RoleManager, p.ID)
	return &out
}

func (m *memoryRepository) usersFor(role model.Role, projectID int) []*model.User {
	var users []*model.User
	for key := range m.members[role] {
		if key[0] == projectID {
			users = append(users, m.users[key[1]])
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (m *memoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.projects), nil
}

func (m *memoryRepository) List(ctx context.Context, filter project.Filter) ([]*model.Project, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int, 0, len(m.projects))
	for id, p := range m.projects {
		if strings.Contains(p.Name, filter.Name) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	matched := len(ids)
	if filter.Limit > 0 {
		if filter.Offset >= len(ids) {
			ids = nil
		} else {
			ids = ids[filter.Offset:]
			if len(ids) > filter.Limit {
				ids = ids[:filter.Limit]
			}
		}
	}

	out := make([]*model.Project, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.withMembers(m.projects[id]))
	}
	return out, matched, nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return m.withMembers(p), nil
}

func (m *memoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) Create(ctx context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p.ID = m.nextID
	m.nextID++
	stored := *p
	m.projects[p.ID] = &stored
	return nil
}

func (m *memoryRepository) Update(ctx context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return project.ErrProjectNotFound
	}
	for id, other := range m.projects {
		if id != p.ID && other.Name == p.Name {
			return project.ErrDuplicateName
		}
	}
	stored := model.Project{ID: p.ID, Name: p.Name, Description: p.Description, Status: p.Status}
	m.projects[p.ID] = &stored
	return nil
}

func (m *memoryRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(m.projects, id)
	for _, set := range m.members {
		for key := range set {
			if key[0] == id {
				delete(set, key)
			}
		}
	}
	return nil
}

func (m *memoryRepository) FindActive(ctx context.Context, id int) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || !p.Status {
		return nil, project.ErrActiveProjectNotFound
	}
	return p, nil
}

func (m *memoryRepository) FindUser(ctx context.Context, id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, project.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryRepository) AddAssignment(ctx context.Context, role model.Role, projectID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[role][[2]int{projectID, userID}] = true
	return nil
}

func (m *memoryRepository) RemoveAssignment(ctx context.Context, role model.Role, projectID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int{projectID, userID}
	if !m.members[role][key] {
		return project.ErrNotAssigned
	}
	delete(m.members[role], key)
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("connection refused")
