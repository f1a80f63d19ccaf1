package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/pochaclub/pocha/internal/floor"
	"github.com/pochaclub/pocha/pkg"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "FLOOR"
	appName      = "floor"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	lifecycle := []interface{}{}

	tableCount := intFromConfig(config, "floor.tables", floor.DefaultTableCount)
	tickInterval := durationFromConfig(config, "floor.tick_interval", floor.DefaultTickInterval)

	catalog := floor.NewCatalog()
	engine := floor.NewEngine(tableCount, catalog, logger)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	publisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	}
	lifecycle = append(lifecycle, publisherLifecycle)

	subscriber, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	kitchenSubscriber := floor.NewKitchenTicketSubscriber(subscriber, engine, publisher, logger)
	subscriberLifecycle := apt.LifecycleHooks{
		OnStart: kitchenSubscriber.Start,
		OnStop: func(context.Context) error {
			return subscriber.Close()
		},
	}
	lifecycle = append(lifecycle, subscriberLifecycle)

	clock := floor.NewClock(engine, tickInterval, publisher, logger)
	clockLifecycle := apt.LifecycleHooks{
		OnStart: clock.Start,
		OnStop:  clock.Stop,
	}
	lifecycle = append(lifecycle, clockLifecycle)

	adminToken := config.GetStringOrDef("admin.token", "")
	if adminToken == "" {
		logger.Info("No admin token configured, insights and menu management are disabled")
	}

	handler := floor.NewHandler(
		engine,
		logger,
		config,
		publisher,
		adminToken,
	)

	// Choose seeding strategy based on config
	demoEnabled, _ := config.GetString("seeding.demo")
	var seedingFunc func(ctx context.Context) error
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled for floor service")
		seedingFunc = floor.DemoSeedingFunc(seedCtx, engine, seedFS, logger)
	} else {
		seedingFunc = floor.SeedingFunc(seedCtx, catalog, seedFS, logger)
	}

	seedHooks := apt.LifecycleHooks{
		OnStart: seedingFunc,
		OnStop:  floor.StopFunc(cancelSeeds),
	}
	lifecycle = append(lifecycle, seedHooks)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycle...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s) with %d tables", appName, appVersion, engine.TableCount())

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func intFromConfig(config *apt.Config, key string, def int) int {
	raw := config.GetStringOrDef(key, "")
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s value %q, using default %d", key, raw, def)
		return def
	}
	return value
}

func durationFromConfig(config *apt.Config, key string, def time.Duration) time.Duration {
	raw := config.GetStringOrDef(key, "")
	if raw == "" {
		return def
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s value %q, using default %s", key, raw, def)
		return def
	}
	return value
}
