package app

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service/internal/gateway/notification"
	"service/internal/handlers/rest/config_reload_post"
	"service/internal/handlers/rest/order_get"
	"service/internal/handlers/rest/order_offers_get"
	"service/internal/handlers/rest/order_split_post"
	"service/internal/handlers/rest/order_submit_post"
	"service/internal/handlers/tasks/daily_rollover"
	"service/internal/handlers/tasks/missed_pickup"
	"service/internal/handlers/tasks/offer_dispatch"
	"service/internal/handlers/tasks/order_intake"
	"service/internal/pkg/config"
	"service/internal/pkg/factory/offer_trigger"
	"service/internal/pkg/snapshot"

	joblockRepo "service/internal/repository/joblock"
	ledgerRepo "service/internal/repository/ledger"
	offerRepo "service/internal/repository/offer"
	orderRepo "service/internal/repository/order"
	providerRepo "service/internal/repository/provider"
	snapshotRepo "service/internal/repository/snapshot"
	allocationService "service/internal/service/allocation"
	matchingService "service/internal/service/matching"
	offerService "service/internal/service/offer"
	reassignService "service/internal/service/reassign"

	"service/pkg/background"
	"service/pkg/logger"
	"service/pkg/querier"
	"service/pkg/tx"
)

type Application struct {
	ServiceMatching   ServiceMatching
	ServiceOffer      ServiceOffer
	SnapshotHolder    *snapshot.Holder
	BackgroundWorkers *background.Worker
}

type ServiceMatching interface {
	order_submit_post.Service
	order_get.Service
	order_split_post.Service
}

type ServiceOffer interface {
	order_offers_get.Service
}

// KafkaWorkerApp собирает зависимости consumer-бинаря.
type KafkaWorkerApp struct {
	ServiceOffer *offerService.Offer
}

// SnapshotReloader для POST /config/reload
type SnapshotReloader interface {
	config_reload_post.Reloader
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideProviderRepository(querier *querier.Querier) *providerRepo.Repository {
	return providerRepo.New(querier)
}

func provideLedgerRepository(querier *querier.Querier) *ledgerRepo.Repository {
	return ledgerRepo.New(querier)
}

func provideOfferRepository(querier *querier.Querier) *offerRepo.Repository {
	return offerRepo.New(querier)
}

func provideJobLock(pool *pgxpool.Pool) *joblockRepo.Repository {
	return joblockRepo.New(pool)
}

func provideSnapshotRepository(querier *querier.Querier) *snapshotRepo.Repository {
	return snapshotRepo.New(querier)
}

func provideSnapshotHolder(ctx context.Context, log logger.Logger, loader snapshot.Loader) (*snapshot.Holder, error) {
	return snapshot.NewHolder(ctx, log, loader)
}

func provideTriggerFactory(cfg *config.Config) *offer_trigger.TriggerTimeFactory {
	return offer_trigger.New(
		cfg.Matching.StaggerInterval,
		cfg.Matching.DeliveryOfferDelay,
		cfg.Matching.ResponseGrace,
	)
}

func provideNotificationGateway(
	log logger.Logger,
	producer sarama.SyncProducer,
	holder *snapshot.Holder,
	cfg *config.Config,
) *notification.Gateway {
	return notification.New(log, producer, holder, cfg.Kafka.NotificationTopic)
}

func provideAllocationService(
	ledgerRepository allocationService.LedgerRepository,
	orderRepository allocationService.OrderRepository,
	providerRepository allocationService.ProviderRepository,
	snapshots allocationService.SnapshotSource,
	txManager allocationService.TxManager,
) *allocationService.Allocation {
	return allocationService.New(
		ledgerRepository,
		orderRepository,
		providerRepository,
		snapshots,
		txManager,
	)
}

func provideMatchingService(
	orderRepository matchingService.OrderRepository,
	providerRepository matchingService.ProviderRepository,
	offerRepository matchingService.OfferRepository,
	allocator matchingService.Allocator,
	notifier matchingService.Notifier,
	triggerFactory matchingService.TriggerTimeFactory,
	snapshots matchingService.SnapshotSource,
	txManager matchingService.TxManager,
	cfg *config.Config,
) *matchingService.Matching {
	return matchingService.New(
		orderRepository,
		providerRepository,
		offerRepository,
		allocator,
		notifier,
		triggerFactory,
		snapshots,
		txManager,
		matchingService.Config{
			CandidateLimit:    cfg.Matching.CandidateLimit,
			MaxDistanceMeters: cfg.Matching.MaxDistanceMeters,
		},
	)
}

func provideOfferService(
	repository offerService.Repository,
	orderRepository offerService.OrderRepository,
	providerRepository offerService.ProviderRepository,
	allocator offerService.Allocator,
	notifier offerService.Notifier,
	snapshots offerService.SnapshotSource,
	cfg *config.Config,
) *offerService.Offer {
	return offerService.New(
		repository,
		orderRepository,
		providerRepository,
		allocator,
		notifier,
		snapshots,
		offerService.Config{
			TryCap:       cfg.Matching.OfferTryCap,
			SlotLeadTime: cfg.Matching.SlotLeadTime,
			SendParallel: cfg.Matching.OfferSendParallel,
		},
	)
}

func provideReassignService(
	log logger.Logger,
	orderRepository reassignService.OrderRepository,
	fanout reassignService.Fanout,
	snapshots reassignService.SnapshotSource,
	txManager reassignService.TxManager,
	cfg *config.Config,
) *reassignService.Reassign {
	return reassignService.New(
		log,
		orderRepository,
		fanout,
		snapshots,
		txManager,
		reassignService.Config{
			PickupGrace: cfg.Matching.PickupGrace,
		},
	)
}

func provideOrderIntakeTask(
	log logger.Logger,
	service order_intake.Service,
	lock order_intake.JobLock,
	cfg *config.Config,
) *order_intake.OrderIntake {
	return order_intake.NewOrderIntake(log, service, lock, cfg.Tasks.OrderIntakeInterval)
}

func provideOfferDispatchTask(
	log logger.Logger,
	service offer_dispatch.Service,
	lock offer_dispatch.JobLock,
	cfg *config.Config,
) *offer_dispatch.OfferDispatch {
	return offer_dispatch.NewOfferDispatch(log, service, lock, cfg.Tasks.OfferDispatchInterval)
}

func provideMissedPickupTask(
	log logger.Logger,
	service missed_pickup.Service,
	lock missed_pickup.JobLock,
	cfg *config.Config,
) *missed_pickup.MissedPickup {
	return missed_pickup.NewMissedPickup(log, service, lock, cfg.Tasks.MissedPickupInterval)
}

func provideDailyRolloverTask(
	log logger.Logger,
	service daily_rollover.Service,
	lock daily_rollover.JobLock,
	cfg *config.Config,
) *daily_rollover.DailyRollover {
	return daily_rollover.NewDailyRollover(log, service, lock, cfg.Tasks.DailyRolloverInterval)
}

func provideTaskList(
	orderIntakeTask *order_intake.OrderIntake,
	offerDispatchTask *offer_dispatch.OfferDispatch,
	missedPickupTask *missed_pickup.MissedPickup,
	dailyRolloverTask *daily_rollover.DailyRollover,
) []background.Task {
	return []background.Task{
		orderIntakeTask,
		offerDispatchTask,
		missedPickupTask,
		dailyRolloverTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
