package ports

import "context"

// MessageConsumer — фоновый потребитель входящих заказов.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
