package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libhub/library-api/library/config"
	"github.com/libhub/library-api/library/internal/events"
	"github.com/libhub/library-api/library/internal/handler"
	"github.com/libhub/library-api/library/internal/repository"
	"github.com/libhub/library-api/library/internal/server"
	"github.com/libhub/library-api/library/internal/service"
	"github.com/libhub/library-api/library/migrations"
	"github.com/libhub/library-api/pkg/kafka"
	"github.com/libhub/library-api/pkg/logger"
	"github.com/libhub/library-api/pkg/mail"
	"github.com/libhub/library-api/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	bookRepo := repository.NewBookRepository(db, log)
	loanRepo := repository.NewLoanRepository(db, log)

	var pub service.EventPublisher = events.NewNopPublisher()
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close()
		pub = events.NewPublisher(producer, log)
	}

	clock := service.SystemClock{}
	bookSvc := service.NewBook(bookRepo, log)
	loanSvc := service.NewLoan(bookRepo, loanRepo, pub, clock, log)
	notifier := service.NewNotifier(loanRepo, mail.NewSender(cfg.SMTP), clock, log)

	h := handler.New(bookSvc, loanSvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Notifier.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := notifier.NotifyLateLoans(gctx); err != nil {
					log.Error("notify late loans", zap.Error(err))
				}
			}
		}
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.Error("run", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
