package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/foomo/contentserver/requests"
	"go.uber.org/zap"

	"github.com/foomo/contentserver-booknav/config"
	"github.com/foomo/contentserver-booknav/service"
	"github.com/foomo/contentserver-booknav/store/contentserver"
	"github.com/foomo/contentserver-booknav/store/sqlite"
)

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service service.Service
	close   func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logging.Prepare()
	httpClient := &http.Client{Timeout: 30 * time.Second}

	store, closeStore, err := openStore(cfg, logger, httpClient)
	if err != nil {
		return nil, err
	}

	svc := service.NewService(logger, store, service.SiteSettings{
		BaseURL:          cfg.Site.BaseURL,
		ContentSelector:  cfg.Site.ContentSelector,
		DetectLoginForms: cfg.Site.DetectLoginForms,
	}, httpClient, nil)

	return &app{
		cfg:     cfg,
		logger:  logger,
		service: svc,
		close: func() error {
			_ = logger.Sync()
			return closeStore()
		},
	}, nil
}

func openStore(cfg *config.Config, logger *zap.Logger, httpClient *http.Client) (service.Store, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.DSN, logger.Named("sqlite"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverContentServer:
		cs := cfg.Store.ContentServer
		env := &requests.Env{Groups: cs.Groups}
		if cs.Dimension != "" {
			env.Dimensions = []string{cs.Dimension}
		}
		s := contentserver.New(logger.Named("contentserver"), contentserver.NewClient(cs.URL, httpClient), contentserver.Config{
			RootID:        cs.RootID,
			MenuRootID:    cs.MenuRootID,
			Env:           env,
			Dimension:     cs.Dimension,
			PageMimeTypes: cs.PageMimeTypes,
			PostMimeTypes: cs.PostMimeTypes,
			MenuMimeTypes: cs.MenuMimeTypes,
			CacheTTL:      cs.CacheTTL,
			CacheSize:     cs.CacheSize,
		}, cfg.Book)
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
