// Package scheduler реализует периодические снимки списков участников.
//
// Scheduler по cron-выражению (SNAPSHOT_CRON) загружает все списки,
// обновляет gauge mergington_roster_participants и публикует
// roster.snapshot в RabbitMQ.
//
// Структура:
//   - scheduler.go — Scheduler (Run, Tick)
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//
// Использование:
//
//	sched, err := scheduler.New(scheduler.Config{
//	    Source:    rosterService,
//	    Publisher: publisher, // опционально
//	    Leader:    lock,      // опционально
//	    CronExpr:  cfg.SnapshotCron,
//	    Timezone:  cfg.SnapshotTimezone,
//	    Logger:    logger,
//	})
//	go sched.Run(ctx)
//
// Leader Election:
//
// При нескольких экземплярах тик выполняет только лидер. Для PostgreSQL
// лидерство берётся через pg_try_advisory_lock (repo.AdvisoryLock),
// для остальных хранилищ экземпляр считается единственным.
package scheduler
