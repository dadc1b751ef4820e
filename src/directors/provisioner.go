package directors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rainsimdb/src/auth"
	"rainsimdb/src/engine"
	"rainsimdb/src/schema"
	"rainsimdb/src/settings"
)

// Step names, in execution order.
const (
	StepAuthenticate   = "authenticate"
	StepCreateUser     = "create-user"
	StepSelectDatabase = "select-database"
)

// errAlreadyProvisioned marks a step whose target already exists in idempotent mode.
var errAlreadyProvisioned = errors.New("already provisioned")

// AdminStore is satisfied by *engine.MongoStore.
type AdminStore interface {
	Authenticate(ctx context.Context) error
	CreateUser(ctx context.Context, user auth.NewUser) error
	CreateCollection(ctx context.Context, database string, c schema.Collection, timeSeries bool) error
}

// Step is one administrative call of the bootstrap. Each step relies on
// the ones before it having succeeded.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Provisioner runs the bootstrap steps in order and stops at the first failure.
type Provisioner struct {
	store       AdminStore
	settings    *settings.Arguments
	user        auth.NewUser
	collections []schema.Collection
	logger      *zap.SugaredLogger

	// database is the execution context once select-database has run
	database string
}

func NewProvisioner(store AdminStore, args *settings.Arguments, logger *zap.SugaredLogger) *Provisioner {
	return &Provisioner{
		store:       store,
		settings:    args,
		user:        auth.NewOwner(args.App.Username, args.App.Password, args.App.Database),
		collections: schema.All(),
		logger:      logger,
	}
}

// CollectionStepName is the step that creates collection name.
func CollectionStepName(name string) string {
	return "create-" + name
}

// Steps returns the bootstrap sequence.
func (p *Provisioner) Steps() []Step {
	steps := []Step{
		{Name: StepAuthenticate, Run: p.authenticate},
		{Name: StepCreateUser, Run: p.createUser},
		{Name: StepSelectDatabase, Run: p.selectDatabase},
	}
	for _, c := range p.collections {
		steps = append(steps, Step{Name: CollectionStepName(c.Name), Run: p.createCollection(c)})
	}
	return steps
}

// Run executes every step once. When a step fails the remaining steps are
// recorded as skipped and nothing already created is rolled back.
func (p *Provisioner) Run(ctx context.Context, runID string) (*ProvisionResult, error) {
	result := &ProvisionResult{
		Status:   StatusInProgress,
		RunID:    runID,
		Database: p.settings.App.Database,
	}

	steps := p.Steps()
	for i, step := range steps {
		err := ctx.Err()
		if err == nil {
			err = step.Run(ctx)
		}

		switch {
		case err == nil:
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Status: StatusOK})
		case errors.Is(err, errAlreadyProvisioned):
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Status: StatusSkipped, Error: err.Error()})
		default:
			p.logger.Errorw("bootstrap step failed", "step", step.Name, "error", err)
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Status: StatusError, Error: err.Error()})
			for _, rest := range steps[i+1:] {
				result.Steps = append(result.Steps, StepResult{Name: rest.Name, Status: StatusSkipped})
			}
			result.Status = StatusError
			return result, fmt.Errorf("step %s: %w", step.Name, err)
		}
	}

	result.Status = StatusOK
	return result, nil
}

func (p *Provisioner) authenticate(ctx context.Context) error {
	return p.store.Authenticate(ctx)
}

func (p *Provisioner) createUser(ctx context.Context) error {
	err := p.store.CreateUser(ctx, p.user)
	if err != nil && p.settings.Idempotent && errors.Is(err, auth.ErrUserAlreadyExists) {
		p.logger.Warnw("user already exists, leaving it unchanged", "user", p.user.Username)
		return fmt.Errorf("user %s: %w", p.user.Username, errAlreadyProvisioned)
	}
	return err
}

// selectDatabase re-targets the remaining steps. The server creates the
// database lazily with its first collection.
func (p *Provisioner) selectDatabase(_ context.Context) error {
	p.database = p.settings.App.Database
	p.logger.Info("Database created")
	return nil
}

func (p *Provisioner) createCollection(c schema.Collection) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p.database == "" {
			return fmt.Errorf("no database selected for collection %s", c.Name)
		}

		err := p.store.CreateCollection(ctx, p.database, c, p.settings.CameraTimeSeries)
		if err != nil {
			if p.settings.Idempotent && errors.Is(err, engine.ErrCollectionExists) {
				p.logger.Warnw("collection already exists, leaving it unchanged", "collection", c.Name)
				return fmt.Errorf("collection %s: %w", c.Name, errAlreadyProvisioned)
			}
			return err
		}

		p.logger.Infof("%s collection created", capitalize(c.Name))
		return nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
