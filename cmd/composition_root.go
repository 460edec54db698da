package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpapi "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/badgerjournal"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/notifier"
	"fulfillment/internal/adapters/out/oms"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/vendorrepo"
	"fulfillment/internal/adapters/out/serviceability"
	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/retry"
	"fulfillment/internal/pkg/tracing"

	"github.com/dgraph-io/badger/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	gateway   *oms.Client
	resolver  *labeling.PriorityCarrierResolver
	generator *labeling.LabelGenerator
	journal   *badgerjournal.Journal
	saga      *labeling.CloneSaga
	alerts    *kafka.AlertPublisher
	notifier  *notifier.Async

	autoReverse commands.AutoReverseExpiredCommandHandler
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, journalDB *badger.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	gateway, err := oms.NewClient(cfg.OMSBaseURL, cfg.OMSToken, cfg.OMSTimeout, &http.Client{Timeout: cfg.OMSTimeout})
	if err != nil {
		return nil, fmt.Errorf("oms client: %w", err)
	}
	c.gateway = gateway

	checker, err := serviceability.NewClient(cfg.ServiceabilityURL, cfg.ServiceabilityToken, cfg.ServiceabilityTimeout)
	if err != nil {
		return nil, fmt.Errorf("serviceability client: %w", err)
	}

	journal, err := badgerjournal.NewJournal(journalDB, cfg.JournalTTL)
	if err != nil {
		return nil, fmt.Errorf("saga journal: %w", err)
	}
	c.journal = journal

	labelUoW := c.labelingUoWFactory()
	c.resolver = labeling.NewPriorityCarrierResolver(labelUoW, checker)
	c.generator = labeling.NewLabelGenerator(gateway, c.resolver, labelUoW)
	policy := retry.Policy{
		MaxAttempts:     cfg.SagaMaxAttempts,
		InitialInterval: cfg.SagaInitialBackoff,
		MaxInterval:     cfg.SagaMaxBackoff,
	}
	c.saga = labeling.NewCloneSaga(gateway, labelUoW, c.generator, journal, policy, tracing.Tracer(), logger)

	var producer kafka.Producer = kafka.NewLogProducer(logger)
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewWriterProducer(cfg.KafkaBrokers, cfg.KafkaWriteTimeout)
	}
	c.alerts = kafka.NewAlertPublisher(producer, cfg.KafkaAlertTopic)
	emitter := notifier.NewEmitter(c.uowFactory.CreateGorm().AlertRepository(), c.alerts, cfg.AlertTimeout, logger)
	c.notifier = notifier.NewAsync(emitter)

	c.autoReverse = commands.NewAutoReverseExpiredCommandHandler(c.claimUoWFactory(), cfg.ClaimTTL, logger)
	return c, nil
}

// Close waits for pending alerts and flushes the alert producer.
func (c *CompositionRoot) Close() error {
	c.notifier.Wait()
	return c.alerts.Close()
}

func (c *CompositionRoot) CreateClaimCommandHandler() commands.ClaimCommandHandler {
	return commands.NewClaimCommandHandler(c.claimUoWFactory())
}

func (c *CompositionRoot) CreateDownloadLabelCommandHandler() commands.DownloadLabelCommandHandler {
	return commands.NewDownloadLabelCommandHandler(c.commandUoWFactory(), c.generator, c.saga, c.notifier, c.cfg.BulkBatchSize, c.logger)
}

func (c *CompositionRoot) CreateMarkReadyCommandHandler() commands.MarkReadyCommandHandler {
	return commands.NewMarkReadyCommandHandler(c.commandUoWFactory(), c.gateway, c.cfg.BulkBatchSize, c.logger)
}

func (c *CompositionRoot) CreateReverseCommandHandler() commands.ReverseCommandHandler {
	return commands.NewReverseCommandHandler(c.commandUoWFactory(), c.gateway, c.logger)
}

// CreateAutoReverseExpiredCommandHandler returns the shared sweeper so the
// scheduled job and the endpoint never overlap.
func (c *CompositionRoot) CreateAutoReverseExpiredCommandHandler() commands.AutoReverseExpiredCommandHandler {
	return c.autoReverse
}

func (c *CompositionRoot) CreateAssignPriorityCarriersCommandHandler() commands.AssignPriorityCarriersCommandHandler {
	return commands.NewAssignPriorityCarriersCommandHandler(c.claimUoWFactory(), c.resolver, c.logger)
}

func (c *CompositionRoot) CreateGetGroupedClaimsQueryHandler() queries.GetGroupedClaimsQueryHandler {
	return queries.NewGetGroupedClaimsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVendorByTokenQueryHandler() queries.GetVendorByTokenQueryHandler {
	return queries.NewGetVendorByTokenQueryHandler(c.uowFactory.CreateGorm().VendorRepository())
}

func (c *CompositionRoot) CreateServer() *httpapi.Server {
	return httpapi.NewServer(
		c.CreateClaimCommandHandler(),
		c.CreateDownloadLabelCommandHandler(),
		c.CreateMarkReadyCommandHandler(),
		c.CreateReverseCommandHandler(),
		c.CreateAutoReverseExpiredCommandHandler(),
		c.CreateAssignPriorityCarriersCommandHandler(),
		c.CreateGetGroupedClaimsQueryHandler(),
		c.CreateGetVendorByTokenQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewAutoReverseJob(c.autoReverse, c.cfg.SweepCron, c.logger),
		jobs.NewSagaRecoveryJob(c.journal, c.saga, c.cfg.RecoveryCron, c.cfg.RecoveryGrace, c.logger),
	)
}

// ApplySeed writes the bootstrap carriers and vendors.
func (c *CompositionRoot) ApplySeed(ctx context.Context, seed Seed) error {
	uow := c.uowFactory.CreateGorm()
	return seed.Apply(ctx, uow.CarrierRepository(), vendorrepo.NewGormVendorRepository(c.gormDB))
}

func (c *CompositionRoot) claimUoWFactory() commands.ClaimUoWFactory {
	return FuncClaimUoWFactory(func() commands.ClaimUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) labelingUoWFactory() labeling.UoWFactory {
	return FuncLabelingUoWFactory(func() labeling.UoW {
		return c.uowFactory.CreateGorm()
	})
}

type FuncClaimUoWFactory func() commands.ClaimUoW

func (f FuncClaimUoWFactory) Create() commands.ClaimUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncLabelingUoWFactory func() labeling.UoW

func (f FuncLabelingUoWFactory) Create() labeling.UoW {
	return f()
}
