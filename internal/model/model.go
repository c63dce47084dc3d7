package model

import (
	"github.com/uptrace/bun"
)

const (
	DefaultDescription = "[No description given]"
	DefaultPictureURL  = "/assets/defaultProfile.png"
)

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID          int    `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull,unique"`
	Description string `bun:"description,notnull"`
	Status      bool   `bun:"status,notnull"`

	AssignedUsers    []*User `bun:"m2m:user_projects,join:Project=User"`
	AssignedManagers []*User `bun:"m2m:manager_projects,join:Project=User"`
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int    `bun:"id,pk,autoincrement"`
	Name       string `bun:"name,notnull,unique"`
	PictureURL string `bun:"picture_url,notnull"`

	AssignedUserProjects    []*Project `bun:"m2m:user_projects,join:User=Project"`
	AssignedManagerProjects []*Project `bun:"m2m:manager_projects,join:User=Project"`
}

// UserProject links a user to a project as a regular assignee.
type UserProject struct {
	bun.BaseModel `bun:"table:user_projects,alias:up"`

	ProjectID int      `bun:"project_id,pk"`
	Project   *Project `bun:"rel:belongs-to,join:project_id=id"`
	UserID    int      `bun:"user_id,pk"`
	User      *User    `bun:"rel:belongs-to,join:user_id=id"`
}

// ManagerProject links a user to a project as a manager.
type ManagerProject struct {
	bun.BaseModel `bun:"table:manager_projects,alias:mp"`

	ProjectID int      `bun:"project_id,pk"`
	Project   *Project `bun:"rel:belongs-to,join:project_id=id"`
	UserID    int      `bun:"user_id,pk"`
	User      *User    `bun:"rel:belongs-to,join:user_id=id"`
}

// JoinModels must be registered on the bun.DB before any m2m relation is
// queried.
func JoinModels() []interface{} {
	return []interface{}{(*UserProject)(nil), (*ManagerProject)(nil)}
}

// Role is the kind of membership a user holds on a project. Assignees and
// managers live in separate join tables, so a user can hold both.
type Role string

const (
	RoleAssignee Role = "assignee"
	RoleManager  Role = "manager"
)

func RoleFor(asManager bool) Role {
	if asManager {
		return RoleManager
	}
	return RoleAssignee
}

// Membership returns a join row for the role's table.
func (r Role) Membership(projectID, userID int) interface{} {
	if r == RoleManager {
		return &ManagerProject{ProjectID: projectID, UserID: userID}
	}
	return &UserProject{ProjectID: projectID, UserID: userID}
}

// Table returns the join model used to query memberships of this role.
func (r Role) Table() interface{} {
	if r == RoleManager {
		return (*ManagerProject)(nil)
	}
	return (*UserProject)(nil)
}
