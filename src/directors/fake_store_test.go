package directors

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"rainsimdb/src/auth"
	"rainsimdb/src/engine"
	"rainsimdb/src/schema"
)

// fakeServer keeps just enough server state to reproduce the failures the
// bootstrap cares about: bad credentials, duplicate users, existing namespaces.
type fakeServer struct {
	rootUser     string
	rootPassword string
	version      string

	users       map[string]auth.NewUser
	collections map[string]map[string]engine.CollectionSpec

	calls []string

	// failCollection makes CreateCollection fail for that name
	failCollection string
	// timeSeries records the flag each collection was created with
	timeSeries map[string]bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		rootUser:     "root",
		rootPassword: "example",
		version:      "7.0.5",
		users:        make(map[string]auth.NewUser),
		collections:  make(map[string]map[string]engine.CollectionSpec),
		timeSeries:   make(map[string]bool),
	}
}

// session is what a client connected with the given root credentials sees.
type fakeSession struct {
	server   *fakeServer
	username string
	password string
}

func (s *fakeServer) connect(username, password string) *fakeSession {
	return &fakeSession{server: s, username: username, password: password}
}

func (f *fakeSession) Authenticate(_ context.Context) error {
	f.server.calls = append(f.server.calls, "authenticate")
	if f.username != f.server.rootUser || f.password != f.server.rootPassword {
		return fmt.Errorf("%w: (AuthenticationFailed) Authentication failed.", auth.ErrAuthenticationFailed)
	}
	return nil
}

func (f *fakeSession) CreateUser(_ context.Context, user auth.NewUser) error {
	f.server.calls = append(f.server.calls, "createUser "+user.Username)
	if _, ok := f.server.users[user.Username]; ok {
		return fmt.Errorf("%w: User %q already exists", auth.ErrUserAlreadyExists, user.Username+"@admin")
	}
	f.server.users[user.Username] = user
	return nil
}

func (f *fakeSession) CreateCollection(_ context.Context, database string, c schema.Collection, timeSeries bool) error {
	f.server.calls = append(f.server.calls, "create "+database+"."+c.Name)
	if c.Name == f.server.failCollection {
		return fmt.Errorf("invalid validator for %s", c.Name)
	}
	if f.server.collections[database] == nil {
		f.server.collections[database] = make(map[string]engine.CollectionSpec)
	}
	if _, ok := f.server.collections[database][c.Name]; ok {
		return fmt.Errorf("%w: Collection %s.%s already exists.", engine.ErrCollectionExists, database, c.Name)
	}

	typ := "collection"
	if timeSeries && c.TimeField != "" {
		typ = "timeseries"
	}
	f.server.collections[database][c.Name] = engine.CollectionSpec{
		Name: c.Name, Type: typ, Validator: storedSchema(c.Schema), HasValidator: true,
	}
	f.server.timeSeries[c.Name] = timeSeries
	return nil
}

func (f *fakeSession) ServerVersion(_ context.Context) (string, error) {
	return f.server.version, nil
}

func (f *fakeSession) CollectionSpecs(_ context.Context, database string) ([]engine.CollectionSpec, error) {
	specs := make([]engine.CollectionSpec, 0, len(f.server.collections[database]))
	for _, spec := range f.server.collections[database] {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

func (s *fakeServer) collectionNames(database string) []string {
	names := []string{}
	for name := range s.collections[database] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// storedSchema is the $jsonSchema document as listCollections returns it.
func storedSchema(doc interface{}) bson.Raw {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return raw
}
