package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatusSyncer синхронизирует кэшируемый статус аудиторий
type StatusSyncer interface {
	SyncStatuses(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron   *cron.Cron
	syncer StatusSyncer
	now    func() time.Time
	logger *zap.Logger
}

// NewScheduler создаёт планировщик и регистрирует задачу синхронизации
// статусов по cron выражению
func NewScheduler(schedule string, syncer StatusSyncer, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		syncer: syncer,
		now:    time.Now,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.syncRoomStatuses(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule room status sync %q: %w", schedule, err)
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	// Первый запуск сразу при старте
	s.syncRoomStatuses(ctx)
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущей задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) syncRoomStatuses(ctx context.Context) {
	changed, err := s.syncer.SyncStatuses(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to sync room statuses", zap.Error(err))
		return
	}

	if changed > 0 {
		s.logger.Info("Room statuses synced", zap.Int("changed", changed))
	}
}
