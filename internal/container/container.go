package container

import (
	"context"
	"fmt"

	"tribodash/internal"
	"tribodash/internal/config"
	"tribodash/internal/ledger"
	"tribodash/ui/services"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Ledger ledger.Ledger

	// Services
	Data      *services.DataService
	Dashboard *services.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return &Container{
		Config: cfg,
		Logger: logger,
		Ledger: ledger.Noop{},
	}, nil
}

// Init opens the ledger and builds the services on top of it
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Ledger.Enabled() {
		l, err := ledger.Open(ctx, c.Config.Ledger.Driver, c.Config.Ledger.DSN)
		if err != nil {
			return err
		}
		c.Ledger = l
		c.Logger.Info("Recording dataset loads with the %s ledger", c.Config.Ledger.Driver)
	}

	c.Data = services.NewDataService(c.Config.Data.File, c.Config.Data.CacheTTL, c.Ledger, c.Logger)
	c.Dashboard = services.NewDashboardService(c.Data, c.Config.Dashboard)
	return nil
}

// Warm loads the dataset once so a missing or malformed source fails at startup
func (c *Container) Warm(ctx context.Context) error {
	if c.Data == nil {
		return fmt.Errorf("container not initialized")
	}
	_, _, err := c.Data.Dataset(ctx)
	return err
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Ledger != nil {
		return c.Ledger.Close()
	}
	return nil
}
