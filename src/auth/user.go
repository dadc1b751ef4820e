package auth

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminDatabase is the namespace both the root and the application principals live in.
const AdminDatabase = "admin"

// RoleDBOwner grants full administrative control over a single database.
const RoleDBOwner = "dbOwner"

// Credentials identify the administrative principal.
type Credentials struct {
	Username string
	Password string
}

// ClientCredential authenticates c against the admin database.
func (c Credentials) ClientCredential() options.Credential {
	return options.Credential{
		AuthSource: AdminDatabase,
		Username:   c.Username,
		Password:   c.Password,
	}
}

// Role is a grant scoped to one database.
type Role struct {
	Role string `bson:"role"`
	DB   string `bson:"db"`
}

type NewUser struct {
	Username string
	Password string
	Roles    []Role
}

// NewOwner describes an application user that owns database.
func NewOwner(username, password, database string) NewUser {
	return NewUser{
		Username: username,
		Password: password,
		Roles:    []Role{{Role: RoleDBOwner, DB: database}},
	}
}

// CreateUserCommand builds the createUser command. The command name must be
// the first element, so an ordered document is required.
func (u NewUser) CreateUserCommand() bson.D {
	roles := make(bson.A, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, bson.D{{Key: "role", Value: r.Role}, {Key: "db", Value: r.DB}})
	}

	return bson.D{
		{Key: "createUser", Value: u.Username},
		{Key: "pwd", Value: u.Password},
		{Key: "roles", Value: roles},
	}
}

// OwnedDatabases lists databases the user is granted dbOwner on.
func (u NewUser) OwnedDatabases() []string {
	var dbs []string
	for _, r := range u.Roles {
		if r.Role == RoleDBOwner {
			dbs = append(dbs, r.DB)
		}
	}
	return dbs
}
