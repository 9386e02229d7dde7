//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=config_reload_post_test
package config_reload_post

import (
	"context"

	"service/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Reloader interface {
	Reload(ctx context.Context) error
}
