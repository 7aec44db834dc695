// Package offline — очередь отложенных мутаций и координатор их повторной отправки.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

// KeyPrefix — префикс ключа очереди в хранилище: offlineQueue:<type>.
const KeyPrefix = "offlineQueue:"

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrEmptyQueueType — тип очереди не указан.
var ErrEmptyQueueType = errors.New("offline queue type is empty")

var _ ports.OfflineQueue = (*Queue)(nil)

// EnqueueResult — Entry при успехе; иначе Dropped=true и причина.
// Потеря записи не считается ошибкой для вызывающего.
type EnqueueResult struct {
	Entry   *domain.QueueEntry
	Dropped bool
	Reason  error
}

// Queue — офлайн-очередь поверх ports.KVStore.
// Пустая очередь хранится как отсутствие ключа.
type Queue struct {
	store ports.KVStore
	log   ports.Logger
	types []string
	now   func() time.Time

	mu sync.Mutex // сериализует read-modify-write
}

// NewQueue — DI-конструктор. types — известные типы очередей (для Pending).
func NewQueue(store ports.KVStore, log ports.Logger, types ...string) *Queue {
	if len(types) == 0 {
		types = []string{domain.QueueTypeUserRegistration}
	}
	return &Queue{store: store, log: log, types: types, now: time.Now}
}

// WithClock — подмена часов (для тестов).
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// Types — зарегистрированные типы очередей.
func (q *Queue) Types() []string {
	return append([]string(nil), q.types...)
}

// Enqueue — добавить запись в конец очереди.
func (q *Queue) Enqueue(ctx context.Context, queueType string, payload json.RawMessage) EnqueueResult {
	if queueType == "" {
		q.log.Warnf(ctx, "offline enqueue dropped: %v", ErrEmptyQueueType)
		metrics.OfflineQueueOps.WithLabelValues("", "dropped").Inc()
		return EnqueueResult{Dropped: true, Reason: ErrEmptyQueueType}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	entry := domain.QueueEntry{
		ID:        newEntryID(queueType, now),
		Type:      queueType,
		Payload:   payload,
		CreatedAt: now.UTC().Format(createdAtLayout),
	}

	entries, err := q.load(ctx, queueType)
	if err != nil {
		// без прочитанной очереди запись затёрла бы уже сохранённые
		q.log.Warnf(ctx, "offline enqueue dropped type=%s err=%v", queueType, err)
		metrics.OfflineQueueOps.WithLabelValues(queueType, "dropped").Inc()
		return EnqueueResult{Dropped: true, Reason: err}
	}
	entries = append(entries, entry)
	if err := q.save(ctx, queueType, entries); err != nil {
		q.log.Warnf(ctx, "offline enqueue dropped type=%s err=%v", queueType, err)
		metrics.OfflineQueueOps.WithLabelValues(queueType, "dropped").Inc()
		return EnqueueResult{Dropped: true, Reason: err}
	}

	metrics.OfflineQueueOps.WithLabelValues(queueType, "enqueued").Inc()
	q.log.Infof(ctx, "offline entry queued id=%s type=%s depth=%d", entry.ID, queueType, len(entries))
	return EnqueueResult{Entry: &entry}
}

// ReadAll — записи очереди в порядке добавления; любые проблемы хранилища дают пустой список.
func (q *Queue) ReadAll(ctx context.Context, queueType string) []domain.QueueEntry {
	if queueType == "" {
		return []domain.QueueEntry{}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, _ := q.load(ctx, queueType)
	return entries
}

// RemoveByIDs — удалить ровно указанные записи. Без ids ничего не делает.
func (q *Queue) RemoveByIDs(ctx context.Context, queueType string, ids ...string) error {
	if queueType == "" || len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx, queueType)
	if err != nil {
		q.log.Warnf(ctx, "offline remove skipped type=%s err=%v", queueType, err)
		return err
	}
	kept := entries[:0:0]
	for _, e := range entries {
		if _, ok := drop[e.ID]; !ok {
			kept = append(kept, e)
		}
	}

	if err := q.save(ctx, queueType, kept); err != nil {
		q.log.Warnf(ctx, "offline remove failed type=%s err=%v", queueType, err)
		return err
	}
	metrics.OfflineQueueOps.WithLabelValues(queueType, "removed").Add(float64(len(entries) - len(kept)))
	return nil
}

// Clear — удалить очередь целиком.
func (q *Queue) Clear(ctx context.Context, queueType string) error {
	if queueType == "" {
		return ErrEmptyQueueType
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Delete(ctx, KeyPrefix+queueType); err != nil {
		q.log.Warnf(ctx, "offline clear failed type=%s err=%v", queueType, err)
		return fmt.Errorf("clear offline queue %s: %w", queueType, err)
	}
	metrics.OfflineQueueOps.WithLabelValues(queueType, "cleared").Inc()
	metrics.OfflineQueueDepth.WithLabelValues(queueType).Set(0)
	return nil
}

// Pending — записи всех зарегистрированных типов очередей.
func (q *Queue) Pending(ctx context.Context) []domain.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	all := make([]domain.QueueEntry, 0)
	for _, t := range q.types {
		entries, _ := q.load(ctx, t)
		all = append(all, entries...)
	}
	return all
}

// load — прочитать и разобрать очередь; вызывается под q.mu.
// Ошибка только у хранилища: испорченный JSON читается как пустая очередь.
func (q *Queue) load(ctx context.Context, queueType string) ([]domain.QueueEntry, error) {
	key := KeyPrefix + queueType
	raw, ok, err := q.store.Get(ctx, key)
	if err != nil {
		q.log.Warnf(ctx, "offline read failed type=%s err=%v", queueType, err)
		return []domain.QueueEntry{}, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []domain.QueueEntry{}, nil
	}

	var stored []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		q.log.Warnf(ctx, "offline queue corrupted type=%s err=%v", queueType, err)
		return []domain.QueueEntry{}, nil
	}

	entries := make([]domain.QueueEntry, 0, len(stored))
	for _, item := range stored {
		var e domain.QueueEntry
		if err := json.Unmarshal(item, &e); err != nil || e.ID == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// save — записать очередь; пустая очередь удаляет ключ. Вызывается под q.mu.
func (q *Queue) save(ctx context.Context, queueType string, entries []domain.QueueEntry) error {
	key := KeyPrefix + queueType
	if len(entries) == 0 {
		if err := q.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		metrics.OfflineQueueDepth.WithLabelValues(queueType).Set(0)
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := q.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	metrics.OfflineQueueDepth.WithLabelValues(queueType).Set(float64(len(entries)))
	return nil
}

// newEntryID — <type>-<unix millis>-<8 случайных символов>.
func newEntryID(queueType string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", queueType, now.UnixMilli(), random)
}
