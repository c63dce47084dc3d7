package model

type ProjectSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

type UserSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureURL"`
}

type ProjectDetail struct {
	ProjectSummary
	AssignedUsers    []UserSummary `json:"assignedUsers"`
	AssignedManagers []UserSummary `json:"assignedManagers"`
}

type UserDetail struct {
	UserSummary
	AssignedUserProjects    []ProjectSummary `json:"assignedUserProjects"`
	AssignedManagerProjects []ProjectSummary `json:"assignedManagerProjects"`
}

func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
	}
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		PictureURL: u.PictureURL,
	}
}

// Detail never leaves the relation slices nil so they encode as [].
func (p *Project) Detail() ProjectDetail {
	return ProjectDetail{
		ProjectSummary:   p.Summary(),
		AssignedUsers:    userSummaries(p.AssignedUsers),
		AssignedManagers: userSummaries(p.AssignedManagers),
	}
}

func (u *User) Detail() UserDetail {
	return UserDetail{
		UserSummary:             u.Summary(),
		AssignedUserProjects:    projectSummaries(u.AssignedUserProjects),
		AssignedManagerProjects: projectSummaries(u.AssignedManagerProjects),
	}
}

func userSummaries(users []*User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}

func projectSummaries(projects []*Project) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Summary())
	}
	return out
}
