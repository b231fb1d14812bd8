package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/app"
	"github.com/Freeeeeet/room_scheduler/internal/calendar"
	"github.com/Freeeeeet/room_scheduler/internal/config"
	"github.com/Freeeeeet/room_scheduler/internal/controller"
	"github.com/Freeeeeet/room_scheduler/internal/controller/api"
	"github.com/Freeeeeet/room_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/room_scheduler/internal/lock"
	"github.com/Freeeeeet/room_scheduler/internal/repository"
	"github.com/Freeeeeet/room_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/room_scheduler/internal/service"
	"github.com/Freeeeeet/room_scheduler/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const advisoryLockPollInterval = 50 * time.Millisecond

// stores хранилища и блокировка выбранного бэкенда
type stores struct {
	rooms     service.RoomStore
	teachers  service.TeacherStore
	timetable service.TimetableStore
	bookings  service.BookingStore
	locker    service.Locker
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Room scheduler stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting room scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("bot_enabled", cfg.TelegramToken != ""),
	)

	cal, err := newCalendar(cfg)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// Сервисы
	availabilityService := service.NewAvailabilityService(cal, st.rooms, st.timetable, st.bookings, cfg.AvailabilityWorkers, logger)
	bookingService := service.NewBookingService(cal, st.rooms, st.teachers, st.bookings, availabilityService, st.locker, cfg.LockTimeout, logger)
	roomService := service.NewRoomService(cal, st.rooms, availabilityService, cfg.Location, logger)
	timetableService := service.NewTimetableService(st.timetable)
	userService := service.NewUserService(st.teachers, cfg.AdminTelegramIDs, logger)

	// Фоновые задачи
	scheduler, err := app.NewScheduler(cfg.RoomStatusSyncCron, roomService, logger)
	if err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := api.NewServer(api.Services{
		Calendar:     cal,
		Availability: availabilityService,
		Bookings:     bookingService,
		Rooms:        roomService,
		Timetable:    timetableService,
	}, cfg.RequestTimeout, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Listen(cfg.HTTPAddr)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down HTTP API")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.TelegramToken != "" {
		botInstance, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(handlers.Timeout(cfg.RequestTimeout)))
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}

		cmdHandlers := handlers.NewHandlers(userService, bookingService, availabilityService, cal, cfg.Location, logger)
		botController := controller.NewBotController(botInstance, cmdHandlers, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			// Меню команд не критично, бот работает и без него
			logger.Warn("Bot commands menu is not set", zap.Error(err))
		}

		g.Go(func() error {
			botController.Start(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Room scheduler stopped")
	return nil
}

func newCalendar(cfg *config.Config) (*calendar.Calendar, error) {
	if len(cfg.Slots) == 0 {
		return calendar.MustDefault(), nil
	}

	defs := make([]calendar.SlotDef, 0, len(cfg.Slots))
	for _, s := range cfg.Slots {
		defs = append(defs, calendar.SlotDef{ID: s.ID, Start: s.Start, End: s.End})
	}

	cal, err := calendar.New(defs)
	if err != nil {
		return nil, fmt.Errorf("load slots from %s: %w", cfg.SlotsFile, err)
	}
	return cal, nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		return openMemory(cfg, logger)
	}
	return openPostgres(ctx, cfg, logger)
}

func openMemory(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	store := memory.NewStore()

	if cfg.SeedFile != "" {
		seed, err := memory.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := store.Apply(seed); err != nil {
			return nil, fmt.Errorf("apply seed: %w", err)
		}
		logger.Info("Memory store seeded",
			zap.String("file", cfg.SeedFile),
			zap.Int("rooms", len(seed.Rooms)),
			zap.Int("timetable", len(seed.Timetable)),
		)
	} else {
		logger.Warn("Memory store is empty, set SEED_FILE to load rooms and timetable")
	}

	return &stores{
		rooms:     store.Rooms(),
		teachers:  store.Teachers(),
		timetable: store.Timetable(),
		bookings:  store.Bookings(),
		locker:    lock.NewKeyedMutex(),
		close:     func() {},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Держатели advisory lock не должны занимать соединения репозиториев
	lockPool, err := repository.NewLockPool(ctx, cfg.GetDBDSN(), cfg.LockPoolConns)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		rooms:     repository.NewRoomRepository(pool),
		teachers:  repository.NewTeacherRepository(pool),
		timetable: repository.NewTimetableRepository(pool, logger),
		bookings:  repository.NewBookingRepository(pool),
		locker:    repository.NewAdvisoryLocker(lockPool, advisoryLockPollInterval, logger),
		close: func() {
			lockPool.Close()
			pool.Close()
		},
	}, nil
}
