package publisher

import (
	"context"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.Alert) error
}
