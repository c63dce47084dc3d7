package docs

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func arrayOf(name string) *openapi3.SchemaRef {
	schema := openapi3.NewArraySchema()
	schema.Items = ref(name)
	return schema.NewRef()
}

func schemas() openapi3.Schemas {
	baseProject := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema().WithDefault("[No description given]")).
		WithProperty("status", openapi3.NewBoolSchema().WithDefault(true))

	projectWithout := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewBoolSchema())

	projectWith := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewBoolSchema()).
		WithPropertyRef("assignedUsers", arrayOf("UserWithoutRelationship")).
		WithPropertyRef("assignedManagers", arrayOf("UserWithoutRelationship"))

	baseUser := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("pictureURL", openapi3.NewStringSchema().WithDefault("/assets/defaultProfile.png"))

	userWithout := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("pictureURL", openapi3.NewStringSchema())

	userWith := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("pictureURL", openapi3.NewStringSchema()).
		WithPropertyRef("assignedUserProjects", arrayOf("ProjectWithoutRelationship")).
		WithPropertyRef("assignedManagerProjects", arrayOf("ProjectWithoutRelationship"))

	assignment := openapi3.NewObjectSchema().
		WithProperty("targetUser", openapi3.NewIntegerSchema().WithMin(1)).
		WithProperty("asManager", openapi3.NewBoolSchema())
	assignment.Required = []string{"targetUser", "asManager"}

	return openapi3.Schemas{
		"BaseProject":                baseProject.NewRef(),
		"ProjectWithoutRelationship": projectWithout.NewRef(),
		"ProjectWithRelationship":    projectWith.NewRef(),
		"BaseUser":                   baseUser.NewRef(),
		"UserWithoutRelationship":    userWithout.NewRef(),
		"UserWithRelationship":       userWith.NewRef(),
		"ProjectAssignment":          assignment.NewRef(),
		"Message":                    openapi3.NewObjectSchema().WithProperty("message", openapi3.NewStringSchema()).NewRef(),
		"Error":                      openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema()).NewRef(),
	}
}

// operation describes one route. body and ok name component schemas; an
// empty name means none.
type operation struct {
	method      string
	path        string
	tag         string
	id          string
	description string
	query       []string
	pathID      bool
	body        string
	ok          *openapi3.SchemaRef
	errors      []int
}

func operations() []operation {
	message := ref("Message")
	return []operation{
		{http.MethodGet, "/projects", "projects", "listProjects", "Request a list of projects, optionally filtered by name. More than 10 projects are paginated.", []string{"name", "page"}, false, "", arrayOf("ProjectWithRelationship"), []int{404, 500}},
		{http.MethodPost, "/projects", "projects", "createProject", "Create a new project.", nil, false, "BaseProject", message, []int{400, 409, 500}},
		{http.MethodGet, "/projects/{id}", "projects", "getProject", "Request information for a specific project by ID.", nil, true, "", ref("ProjectWithRelationship"), []int{400, 404, 500}},
		{http.MethodPost, "/projects/{id}", "projects", "modifyProject", "Modify a project. Only non-empty fields are applied.", nil, true, "BaseProject", message, []int{400, 409, 500}},
		{http.MethodDelete, "/projects/{id}", "projects", "deleteProject", "Delete a project.", nil, true, "", message, []int{400, 500}},
		{http.MethodPost, "/projects/assign/{id}", "projects", "assignUser", "Assign a user to an active project as assignee or manager.", nil, true, "ProjectAssignment", message, []int{400, 404, 500}},
		{http.MethodPost, "/projects/unassign/{id}", "projects", "unassignUser", "Remove a user from an active project.", nil, true, "ProjectAssignment", message, []int{400, 404, 500}},
		{http.MethodGet, "/users", "users", "listUsers", "Request a list of users. More than 10 users are paginated.", []string{"page"}, false, "", arrayOf("UserWithRelationship"), []int{404, 500}},
		{http.MethodPost, "/users", "users", "createUser", "Create a new user.", nil, false, "BaseUser", message, []int{400, 409, 500}},
		{http.MethodGet, "/users/{id}", "users", "getUser", "Request information for a specific user by ID.", nil, true, "", ref("UserWithRelationship"), []int{400, 404, 500}},
		{http.MethodPatch, "/users/{id}", "users", "modifyUser", "Modify a user. Only non-empty fields are applied.", nil, true, "BaseUser", message, []int{400, 409, 500}},
		{http.MethodDelete, "/users/{id}", "users", "deleteUser", "Delete a user.", nil, true, "", message, []int{400, 500}},
	}
}

// NewDocument builds the OpenAPI description of the REST API. serverURL may
// be empty.
func NewDocument(version, serverURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "teamboard",
			Description: "Projects and users with assignee and manager memberships.",
			Version:     version,
		},
		Tags: openapi3.Tags{
			&openapi3.Tag{Name: "projects", Description: "Project management"},
			&openapi3.Tag{Name: "users", Description: "User management"},
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: schemas(),
		},
	}
	if serverURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: serverURL}}
	}

	for _, op := range operations() {
		doc.AddOperation(op.path, op.method, op.build())
	}
	return doc
}

func (o operation) build() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = o.id
	op.Tags = []string{o.tag}
	op.Description = o.description

	if o.pathID {
		p := openapi3.NewPathParameter("id").WithSchema(openapi3.NewIntegerSchema().WithMin(1))
		op.AddParameter(p)
	}
	for _, name := range o.query {
		schema := openapi3.NewStringSchema()
		if name == "page" {
			schema = openapi3.NewIntegerSchema().WithMin(1)
		}
		op.AddParameter(openapi3.NewQueryParameter(name).WithSchema(schema))
	}

	if o.body != "" {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref(o.body)),
		}
	}

	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription(http.StatusText(http.StatusOK)).
		WithJSONSchemaRef(o.ok))
	for _, code := range o.errors {
		op.AddResponse(code, openapi3.NewResponse().
			WithDescription(http.StatusText(code)).
			WithJSONSchemaRef(ref("Error")))
	}
	return op
}
