// Package wire provides dependency injection for the dutybridge application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/adapters/flashduty"
	"github.com/example/dutybridge/internal/adapters/servicenow"
	"github.com/example/dutybridge/internal/adapters/webhook"
	"github.com/example/dutybridge/internal/app"
	"github.com/example/dutybridge/internal/config"
	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/ports/secondary"
)

var (
	cfg             *config.Config
	logger          *zap.Logger
	directory       secondary.Directory
	policyService   primary.PolicyService
	timelineSession *app.TimelineSession
	notifyService   primary.NotificationService
	once            sync.Once
)

// Config returns the loaded application configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared application logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Directory returns the singleton ServiceNow directory adapter.
func Directory() secondary.Directory {
	once.Do(initServices)
	return directory
}

// PolicyService returns the singleton PolicyService instance.
func PolicyService() primary.PolicyService {
	once.Do(initServices)
	return policyService
}

// TimelineSession returns the singleton timeline selection session.
func TimelineSession() *app.TimelineSession {
	once.Do(initServices)
	return timelineSession
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	once.Do(initServices)
	return notifyService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to resolve home directory: %v", err)
	}
	cfg = config.LoadOrDefault(homeDir)

	logger, err = newLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// Create outbound adapters (secondary ports)
	flashdutyAPI := flashduty.NewClient(cfg, logger)
	directory = servicenow.NewDirectory(cfg, logger)
	sender := webhook.NewSender(cfg.PushURL, logger)

	// Create services (primary ports implementation)
	policyService = app.NewPolicyService(flashdutyAPI, cfg, logger)
	timelineSession = app.NewTimelineSession(app.NewTimelineService(flashdutyAPI, logger))
	notifyService = app.NewNotificationService(directory, sender, cfg, logger)
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("DUTYBRIDGE_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
