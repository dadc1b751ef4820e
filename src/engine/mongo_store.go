package engine

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"rainsimdb/src/auth"
	"rainsimdb/src/schema"
	"rainsimdb/src/settings"
)

// CollectionSpec is what the server reports about one collection.
type CollectionSpec struct {
	Name string
	Type string

	// Validator is the stored $jsonSchema document, kept undecoded so
	// keywords outside the declared schema remain visible.
	Validator    bson.Raw
	HasValidator bool
}

// MongoStore issues the administrative commands of the bootstrap over a single client.
type MongoStore struct {
	client *mongo.Client
	logger *zap.SugaredLogger
}

// ClientOptions builds the client configuration: root credentials against
// the admin database and a single pooled connection. Driver retries are off
// so a failed command fails the run.
func ClientOptions(args *settings.Arguments) *options.ClientOptions {
	return options.Client().
		ApplyURI(args.URI).
		SetAuth(auth.Credentials{
			Username: args.Root.Username,
			Password: args.Root.Password,
		}.ClientCredential()).
		SetAppName(args.AppName).
		SetMinPoolSize(1).
		SetMaxPoolSize(1).
		SetServerSelectionTimeout(args.ServerSelectionTimeout).
		SetMaxConnIdleTime(args.MaxIdleTime).
		SetRetryWrites(false).
		SetRetryReads(false)
}

// Connect creates the client. No server round trip happens until Authenticate.
func Connect(ctx context.Context, args *settings.Arguments, logger *zap.SugaredLogger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, ClientOptions(args))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return NewMongoStore(client, logger), nil
}

func NewMongoStore(client *mongo.Client, logger *zap.SugaredLogger) *MongoStore {
	return &MongoStore{client: client, logger: logger}
}

// Authenticate forces the connection handshake, which is where the root
// credentials are checked.
func (s *MongoStore) Authenticate(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return classify(err)
	}
	s.logger.Debugw("authenticated", "authSource", auth.AdminDatabase)
	return nil
}

// CreateUser defines user in the admin database.
func (s *MongoStore) CreateUser(ctx context.Context, user auth.NewUser) error {
	err := s.client.Database(auth.AdminDatabase).RunCommand(ctx, user.CreateUserCommand()).Err()
	if err != nil {
		return classify(err)
	}
	s.logger.Debugw("user created", "user", user.Username, "owns", user.OwnedDatabases())
	return nil
}

// CreateCollection creates c in database with its validator attached. When
// timeSeries is set and c declares a time field, the collection is created
// as a time series on that field.
func (s *MongoStore) CreateCollection(ctx context.Context, database string, c schema.Collection, timeSeries bool) error {
	opts := options.CreateCollection().SetValidator(c.Validator())
	if timeSeries && c.TimeField != "" {
		opts.SetTimeSeriesOptions(options.TimeSeries().SetTimeField(c.TimeField))
	}

	if err := s.client.Database(database).CreateCollection(ctx, c.Name, opts); err != nil {
		return classify(err)
	}
	s.logger.Debugw("collection created", "database", database, "collection", c.Name, "timeSeries", timeSeries && c.TimeField != "")
	return nil
}

// CollectionSpecs lists the collections of database with their validators.
func (s *MongoStore) CollectionSpecs(ctx context.Context, database string) ([]CollectionSpec, error) {
	specs, err := s.client.Database(database).ListCollectionSpecifications(ctx, bson.D{})
	if err != nil {
		return nil, classify(err)
	}

	out := make([]CollectionSpec, 0, len(specs))
	for _, spec := range specs {
		validator, ok, err := schema.ParseValidator(spec.Options)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", spec.Name, err)
		}
		out = append(out, CollectionSpec{
			Name:         spec.Name,
			Type:         spec.Type,
			Validator:    validator,
			HasValidator: ok,
		})
	}
	return out, nil
}

// ServerVersion returns the version reported by buildInfo.
func (s *MongoStore) ServerVersion(ctx context.Context) (string, error) {
	var info struct {
		Version string `bson:"version"`
	}
	err := s.client.Database(auth.AdminDatabase).RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info)
	if err != nil {
		return "", classify(err)
	}
	return info.Version, nil
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
