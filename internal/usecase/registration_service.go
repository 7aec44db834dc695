package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/offline"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var _ ports.RegistrationService = (*RegistrationService)(nil)

// RegistrationService — регистрация сотрудника: сразу в апстрим или в офлайн-очередь.
type RegistrationService struct {
	registrar ports.Registrar
	queue     *offline.Queue
	conn      ports.Connectivity
	notifier  ports.Notifier
	log       ports.Logger
	now       func() time.Time
}

// NewRegistrationService — DI-конструктор.
func NewRegistrationService(
	registrar ports.Registrar,
	queue *offline.Queue,
	conn ports.Connectivity,
	notifier ports.Notifier,
	log ports.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrar: registrar,
		queue:     queue,
		conn:      conn,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Submit — без связи запись ставится в очередь; со связью уходит в апстрим.
// Отказ апстрима (*domain.RejectedError) возвращается как ошибка; сетевой сбой
// означает, что связь пропала, и запись тоже уходит в очередь.
func (s *RegistrationService) Submit(ctx context.Context, reg domain.Registration) (domain.SubmitResult, error) {
	payload, err := json.Marshal(reg)
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("marshal registration: %w", err)
	}

	if !s.conn.Online() {
		return s.enqueue(ctx, payload)
	}

	msg, err := s.registrar.Register(ctx, payload)
	if err != nil {
		var rejected *domain.RejectedError
		if errors.As(err, &rejected) {
			text := rejected.Message
			if text == "" {
				text = MsgRegisterFailed
			}
			s.notify(ctx, text, domain.SeverityError)
			s.log.Warnf(ctx, "registration rejected status=%d", rejected.StatusCode)
			return domain.SubmitResult{Message: text}, fmt.Errorf("register: %w", err)
		}
		s.log.Warnf(ctx, "registration upstream unreachable, queueing err=%v", err)
		return s.enqueue(ctx, payload)
	}

	if msg == "" {
		msg = MsgRegistered
	}
	s.notify(ctx, msg, domain.SeveritySuccess)
	return domain.SubmitResult{Message: msg}, nil
}

func (s *RegistrationService) enqueue(ctx context.Context, payload json.RawMessage) (domain.SubmitResult, error) {
	res := s.queue.Enqueue(ctx, domain.QueueTypeUserRegistration, payload)
	if res.Dropped {
		s.notify(ctx, MsgNotQueued, domain.SeverityError)
		return domain.SubmitResult{Message: MsgNotQueued}, fmt.Errorf("%w: %v", ErrNotQueued, res.Reason)
	}
	s.notify(ctx, MsgQueuedOffline, domain.SeverityInfo)
	return domain.SubmitResult{Queued: true, Entry: res.Entry, Message: MsgQueuedOffline}, nil
}

func (s *RegistrationService) notify(ctx context.Context, msg string, severity domain.Severity) {
	s.notifier.Notify(ctx, domain.Notice{Message: msg, Severity: severity, At: s.now()})
}
