//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"

	"service/internal/gateway/notification"
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

	"service/pkg/logger"
	"service/pkg/tx"
)

func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideOrderRepository,
		provideProviderRepository,
		provideLedgerRepository,
		provideOfferRepository,
		provideJobLock,
		provideSnapshotRepository,
		provideSnapshotHolder,
		provideTriggerFactory,
		provideNotificationGateway,
		provideAllocationService,
		provideMatchingService,
		provideOfferService,
		provideReassignService,
		provideOrderIntakeTask,
		provideOfferDispatchTask,
		provideMissedPickupTask,
		provideDailyRolloverTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Bind(new(snapshot.Loader), new(*snapshotRepo.Repository)),

		wire.Bind(new(allocationService.LedgerRepository), new(*ledgerRepo.Repository)),
		wire.Bind(new(allocationService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(allocationService.ProviderRepository), new(*providerRepo.Repository)),
		wire.Bind(new(allocationService.SnapshotSource), new(*snapshot.Holder)),
		wire.Bind(new(allocationService.TxManager), new(*tx.Manager)),

		wire.Bind(new(matchingService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(matchingService.ProviderRepository), new(*providerRepo.Repository)),
		wire.Bind(new(matchingService.OfferRepository), new(*offerRepo.Repository)),
		wire.Bind(new(matchingService.Allocator), new(*allocationService.Allocation)),
		wire.Bind(new(matchingService.Notifier), new(*notification.Gateway)),
		wire.Bind(new(matchingService.TriggerTimeFactory), new(*offer_trigger.TriggerTimeFactory)),
		wire.Bind(new(matchingService.SnapshotSource), new(*snapshot.Holder)),
		wire.Bind(new(matchingService.TxManager), new(*tx.Manager)),

		wire.Bind(new(offerService.Repository), new(*offerRepo.Repository)),
		wire.Bind(new(offerService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(offerService.ProviderRepository), new(*providerRepo.Repository)),
		wire.Bind(new(offerService.Allocator), new(*allocationService.Allocation)),
		wire.Bind(new(offerService.Notifier), new(*notification.Gateway)),
		wire.Bind(new(offerService.SnapshotSource), new(*snapshot.Holder)),

		wire.Bind(new(reassignService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(reassignService.Fanout), new(*matchingService.Matching)),
		wire.Bind(new(reassignService.SnapshotSource), new(*snapshot.Holder)),
		wire.Bind(new(reassignService.TxManager), new(*tx.Manager)),

		wire.Bind(new(order_intake.Service), new(*matchingService.Matching)),
		wire.Bind(new(order_intake.JobLock), new(*joblockRepo.Repository)),
		wire.Bind(new(offer_dispatch.Service), new(*offerService.Offer)),
		wire.Bind(new(offer_dispatch.JobLock), new(*joblockRepo.Repository)),
		wire.Bind(new(missed_pickup.Service), new(*reassignService.Reassign)),
		wire.Bind(new(missed_pickup.JobLock), new(*joblockRepo.Repository)),
		wire.Bind(new(daily_rollover.Service), new(*allocationService.Allocation)),
		wire.Bind(new(daily_rollover.JobLock), new(*joblockRepo.Repository)),

		wire.Bind(new(ServiceMatching), new(*matchingService.Matching)),
		wire.Bind(new(ServiceOffer), new(*offerService.Offer)),

		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideOrderRepository,
		provideProviderRepository,
		provideLedgerRepository,
		provideOfferRepository,
		provideSnapshotRepository,
		provideSnapshotHolder,
		provideNotificationGateway,
		provideAllocationService,
		provideOfferService,

		wire.Bind(new(snapshot.Loader), new(*snapshotRepo.Repository)),

		wire.Bind(new(allocationService.LedgerRepository), new(*ledgerRepo.Repository)),
		wire.Bind(new(allocationService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(allocationService.ProviderRepository), new(*providerRepo.Repository)),
		wire.Bind(new(allocationService.SnapshotSource), new(*snapshot.Holder)),
		wire.Bind(new(allocationService.TxManager), new(*tx.Manager)),

		wire.Bind(new(offerService.Repository), new(*offerRepo.Repository)),
		wire.Bind(new(offerService.OrderRepository), new(*orderRepo.Repository)),
		wire.Bind(new(offerService.ProviderRepository), new(*providerRepo.Repository)),
		wire.Bind(new(offerService.Allocator), new(*allocationService.Allocation)),
		wire.Bind(new(offerService.Notifier), new(*notification.Gateway)),
		wire.Bind(new(offerService.SnapshotSource), new(*snapshot.Holder)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
