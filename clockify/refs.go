package clockify

// ID is a raw identifier. It can stand in for any parent record when calling
// a Client method.
type ID string

// WorkspaceRef is a Workspace or a raw workspace ID.
type WorkspaceRef interface {
	workspaceID() string
}

// ProjectRef is a Project or a raw project ID.
type ProjectRef interface {
	projectID() string
}

// UserRef is a User or a raw user ID.
type UserRef interface {
	userID() string
}

func (id ID) workspaceID() string { return string(id) }
func (id ID) projectID() string   { return string(id) }
func (id ID) userID() string      { return string(id) }

func (ws Workspace) workspaceID() string { return ws.ID }
func (p Project) projectID() string      { return p.ID }
func (u User) userID() string            { return u.ID }
