package ports

import "context"

// KVStore — долговечное строковое хранилище "ключ → значение" для офлайн-очереди.
// Get возвращает ok=false, если ключа нет.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
