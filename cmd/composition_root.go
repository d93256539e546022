package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/clock"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	uowFactory  *postgres.GormUnitOfWorkFactory
	authorizer  *services.RoleAuthorizer
	planner     *services.NotificationPlanner
	sender      ports.NotificationSender
	idempotency ports.IdempotencyStore
	clock       clock.Clock
	logger      *slog.Logger
}

// NewCompositionRoot wires the application over an open database. redisClient
// may be nil; submits are then deduplicated by the order store alone.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient goredis.Cmdable,
	sender ports.NotificationSender,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	access, err := cfg.AccessConfig()
	if err != nil {
		return nil, err
	}
	authorizer, err := services.NewRoleAuthorizer(access)
	if err != nil {
		return nil, err
	}
	notifications, err := cfg.NotificationConfig()
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:        cfg,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		authorizer: authorizer,
		planner:    services.NewNotificationPlanner(notifications),
		sender:     sender,
		clock:      clock.NewSystem(),
		logger:     logger,
	}
	if redisClient != nil {
		root.idempotency = redis.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
	}
	return root, nil
}

func (c *CompositionRoot) workflowUoWFactory() commands.WorkflowUoWFactory {
	return FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readRepositoriesFactory() queries.ReadRepositoriesFactory {
	return FuncReadRepositoriesFactory(func() queries.ReadRepositories {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateNotificationDispatcher() *commands.NotificationDispatcher {
	return commands.NewNotificationDispatcher(c.planner, c.sender, c.notificationUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateWorkflowEngine() *commands.WorkflowEngine {
	return commands.NewWorkflowEngine(
		c.workflowUoWFactory(),
		c.authorizer,
		c.CreateNotificationDispatcher(),
		c.idempotency,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRecordNotificationOpenedCommandHandler() commands.RecordNotificationOpenedCommandHandler {
	return commands.NewRecordNotificationOpenedCommandHandler(c.notificationUoWFactory())
}

func (c *CompositionRoot) CreateRedeliverNotificationsCommandHandler() commands.RedeliverNotificationsCommandHandler {
	return commands.NewRedeliverNotificationsCommandHandler(c.notificationUoWFactory(), c.sender, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateWorkflowEngine(),
		c.authorizer,
		httpin.NewQueryHandlers(c.readRepositoriesFactory()),
		c.CreateRecordNotificationOpenedCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	redelivery := jobs.NewNotificationRedeliveryJob(
		c.CreateRedeliverNotificationsCommandHandler(),
		c.cfg.RedeliveryCron,
		c.cfg.RedeliveryMaxAttempts,
		c.cfg.RedeliveryBatch,
		c.logger,
	)
	return jobs.NewJobManager(redelivery)
}

type FuncWorkflowUoWFactory func() commands.WorkflowUoW

func (f FuncWorkflowUoWFactory) Create() commands.WorkflowUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncReadRepositoriesFactory func() queries.ReadRepositories

func (f FuncReadRepositoriesFactory) Create() queries.ReadRepositories {
	return f()
}
