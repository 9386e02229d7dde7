//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_submit_post_test
package order_submit_post

import (
	"context"

	"service/internal/entities"
	"service/internal/service/matching"
	"service/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	SubmitOrder(ctx context.Context, intake matching.OrderIntake) (*entities.Order, error)
}
