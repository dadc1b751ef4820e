package directors

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rainsimdb/src/engine"
	"rainsimdb/src/schema"
	"rainsimdb/src/settings"
)

// ErrSchemaDrift is matched by every problem Check reports.
var ErrSchemaDrift = errors.New("schema drift")

// CatalogStore is satisfied by *engine.MongoStore.
type CatalogStore interface {
	Authenticate(ctx context.Context) error
	ServerVersion(ctx context.Context) (string, error)
	CollectionSpecs(ctx context.Context, database string) ([]engine.CollectionSpec, error)
}

// Inspector verifies that a database holds the declared collections with
// the declared validators. It never writes.
type Inspector struct {
	store       CatalogStore
	settings    *settings.Arguments
	collections []schema.Collection
	logger      *zap.SugaredLogger
}

func NewInspector(store CatalogStore, args *settings.Arguments, logger *zap.SugaredLogger) *Inspector {
	return &Inspector{
		store:       store,
		settings:    args,
		collections: schema.All(),
		logger:      logger,
	}
}

// Check returns a report in every case where the server could be queried.
// The error aggregates all problems found; connection failures are returned
// with a nil report.
func (i *Inspector) Check(ctx context.Context) (*CheckReport, error) {
	if err := i.store.Authenticate(ctx); err != nil {
		return nil, err
	}

	version, err := i.store.ServerVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading server version: %w", err)
	}

	database := i.settings.App.Database
	specs, err := i.store.CollectionSpecs(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("listing collections of %s: %w", database, err)
	}

	report := &CheckReport{
		ServerVersion: version,
		Database:      database,
		Collections:   make([]string, 0, len(specs)),
	}
	byName := make(map[string]engine.CollectionSpec, len(specs))
	for _, spec := range specs {
		report.Collections = append(report.Collections, spec.Name)
		byName[spec.Name] = spec
	}
	i.logger.Infow("collections", "database", database, "names", report.Collections)

	var problems error
	for _, c := range i.collections {
		problems = multierr.Append(problems, i.compare(c, byName))
	}

	report.Status = StatusOK
	if problems != nil {
		report.Status = StatusError
		for _, p := range multierr.Errors(problems) {
			report.Problems = append(report.Problems, p.Error())
		}
	}
	return report, problems
}

func (i *Inspector) compare(c schema.Collection, specs map[string]engine.CollectionSpec) error {
	spec, ok := specs[c.Name]
	if !ok {
		return fmt.Errorf("%w: collection %s is missing", ErrSchemaDrift, c.Name)
	}
	if !spec.HasValidator {
		return fmt.Errorf("%w: collection %s has no $jsonSchema validator", ErrSchemaDrift, c.Name)
	}

	var err error
	same, decodeErr := c.Schema.Matches(spec.Validator)
	switch {
	case decodeErr != nil:
		err = multierr.Append(err, fmt.Errorf("%w: collection %s validator is unreadable: %w", ErrSchemaDrift, c.Name, decodeErr))
	case !same:
		err = multierr.Append(err, fmt.Errorf("%w: collection %s validator differs from the declared schema", ErrSchemaDrift, c.Name))
	}
	if want := i.expectedType(c); spec.Type != "" && spec.Type != want {
		err = multierr.Append(err, fmt.Errorf("%w: collection %s is a %s, expected %s", ErrSchemaDrift, c.Name, spec.Type, want))
	}
	return err
}

func (i *Inspector) expectedType(c schema.Collection) string {
	if i.settings.CameraTimeSeries && c.TimeField != "" {
		return "timeseries"
	}
	return "collection"
}
