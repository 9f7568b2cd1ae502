package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"parent-portal/auth"
	"parent-portal/bus"
	"parent-portal/gateway"
	"parent-portal/httpapi"
	"parent-portal/logs"
	"parent-portal/moderation"
	"parent-portal/observability"
	"parent-portal/registry"
	"parent-portal/remote"
	"parent-portal/repositories"
	"parent-portal/runtime/workers"
	"parent-portal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes every service, manages the process lifecycle and
// centralizes error reporting so deferred cleanups always execute.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	newsIndex, err := repositories.NewNewsIndex(config.BlugeFilepath)
	if err != nil {
		return fmt.Errorf("news index opening failed: %w", err)
	}
	defer func() { _ = newsIndex.Close() }()

	// 3. Registry, remote client, event bus
	reg := registry.NewRegistry()
	client := remote.NewClient(reg, log)
	eventBus := bus.New(log, config.BusBuffer)

	// 4. Repositories
	userRepo, err := repositories.NewUserRepository(db)
	if err != nil {
		return err
	}
	defer func() { _ = userRepo.Close() }()
	studentRepo, err := repositories.NewStudentRepository(db)
	if err != nil {
		return err
	}
	defer func() { _ = studentRepo.Close() }()
	paymentRepo, err := repositories.NewPaymentRepository(db)
	if err != nil {
		return err
	}
	defer func() { _ = paymentRepo.Close() }()
	chatRepo := repositories.NewChatRepository(db)
	newsRepo := repositories.NewNewsRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// 5. Services
	mask := '*'
	if config.ModerationMask != "" {
		mask = []rune(config.ModerationMask)[0]
	}
	moderator, err := moderation.NewModerator(splitWords(config.BlockedWords), mask)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	tokens := auth.NewTokenIssuer(config.JWTSecret, config.TokenDuration)
	userSvc := services.NewUserService(userRepo, tokens, log)
	studentSvc := services.NewStudentService(studentRepo, client, log)
	paymentSvc := services.NewPaymentService(paymentRepo, client, eventBus, log)
	chatSvc := services.NewChatService(chatRepo, client, moderator, eventBus, log)
	newsSvc := services.NewNewsService(newsRepo, newsIndex, client, eventBus, log)
	notificationSvc := services.NewNotificationService(notificationRepo, client, log)
	adminSvc := services.NewAdminService(client, log)

	services.NewPaymentEventsConsumer(notificationSvc, log).Register(eventBus)

	// 6. HTTP servers, one listener per logical service
	endpoints := []struct {
		name    string
		port    int
		handler http.Handler
	}{
		{remote.ServiceUsers, config.UsersPort, httpapi.UsersRouter(userSvc, log)},
		{remote.ServiceStudents, config.StudentsPort, httpapi.StudentsRouter(studentSvc, log)},
		{remote.ServicePayments, config.PaymentsPort, httpapi.PaymentsRouter(paymentSvc, log)},
		{remote.ServiceCommunication, config.CommunicationPort, httpapi.CommunicationRouter(chatSvc, newsSvc, notificationSvc, log)},
		{remote.ServiceAdmin, config.AdminPort, httpapi.AdminRouter(adminSvc, log)},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, len(endpoints)+1)
	var servers []*http.Server
	for _, ep := range endpoints {
		addr := fmt.Sprintf("%s:%d", config.Host, ep.port)
		srv := &http.Server{Addr: addr, Handler: ep.handler}
		servers = append(servers, srv)
		reg.Register(ep.name, registry.Instance{Addr: addr})

		go func() {
			log.Info("Starting service", "name", ep.name, "address", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("%s server error: %w", ep.name, err)
			}
		}()
	}

	gatewayAddr := fmt.Sprintf("%s:%d", config.Host, config.GatewayPort)
	gatewaySrv := &http.Server{Addr: gatewayAddr, Handler: gateway.New(reg, log)}
	servers = append(servers, gatewaySrv)
	go func() {
		log.Info("Starting gateway", "address", gatewayAddr, "at", time.Now().UTC())
		if err := gatewaySrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("gateway server error: %w", err)
		}
	}()

	// 7. Background workers
	sup := workers.NewSupervisor(log).
		Add(eventBus, observability.NewTelemetry(log, config.TelemetryInterval))
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 8. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}

func splitWords(raw string) []string {
	if raw == "" {
		return nil
	}
	var words []string
	for _, word := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(word); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}
