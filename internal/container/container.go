package container

import (
	"context"
	"fmt"

	"powerplants/adapters/excel"
	"powerplants/app"
	"powerplants/internal"
	"powerplants/internal/api"
	"powerplants/internal/config"
	"powerplants/ports"

	"github.com/gin-gonic/gin"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Reader ports.TableReader

	// Query layer, set by InitWithDataset
	DataHandler *app.PowerPlantDataHandler

	// HTTP surface
	Metrics *api.Metrics
	Server  *api.Server
}

// New creates a container reading the workbook named in the config
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	return NewWithReader(cfg, excel.NewDataReader(cfg.Data.File, logger), logger)
}

// NewWithReader creates a container over an arbitrary table source
func NewWithReader(cfg *config.Config, reader ports.TableReader, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("table reader cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	gin.SetMode(cfg.Server.GinMode)

	c := &Container{
		Config: cfg,
		Logger: logger,
		Reader: reader,
	}

	if cfg.Metrics.Enabled {
		c.Metrics = api.NewMetrics()
	}
	c.Server = api.NewServer(api.Options{
		Addr:           ":" + cfg.Server.Port,
		DefaultMetric:  cfg.Data.DefaultMetric,
		MetricsEnabled: cfg.Metrics.Enabled,
	}, c.Metrics, logger)

	return c, nil
}

// InitWithDataset loads and cleans both sheets, then hands the queries to the server
func (c *Container) InitWithDataset(ctx context.Context) error {
	handler, err := app.LoadPowerPlantDataHandler(ctx, c.Reader, c.Config.Data.PlantSheet, c.Config.Data.StateSheet, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	c.DataHandler = handler

	if c.Metrics != nil {
		c.Metrics.DatasetRows.WithLabelValues(c.Config.Data.PlantSheet).Set(float64(handler.PlantReport().OutputRows))
		c.Metrics.DatasetRows.WithLabelValues(c.Config.Data.StateSheet).Set(float64(handler.StateReport().OutputRows))
	}

	c.Server.SetQueries(handler)
	c.Logger.Info("[Container] dataset loaded: %d plants, %d states",
		handler.PlantReport().OutputRows, handler.StateReport().OutputRows)
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Server != nil {
		return c.Server.Shutdown(ctx)
	}
	return nil
}
