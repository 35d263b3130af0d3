package cli

import (
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/bus"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/config"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/infra/memory"
	infraredis "github.com/razmataz100/maxs-music-quiz-frontend/internal/infra/redis"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/logger"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

var configPath string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("MMQ_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "music-quiz",
		Short:         "Terminal client for Max's Music Quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newResetPasswordCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newGamesCmd())
	cmd.AddCommand(newLeaderboardCmd())
	cmd.AddCommand(newLobbyCmd())
	cmd.AddCommand(newProfileCmd())
	return cmd
}

// app bundles the wired dependencies every subcommand needs.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   store.Store
	client  *api.Client
	catalog memory.CatalogSource
	bus     *bus.Bus
}

// buildApp wires config, logging, the session store (redis when configured,
// in-process otherwise), the REST client, and the catalog cache.
func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	var sessionStore store.Store = memory.NewAuthStore()
	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
		sessionStore = infraredis.NewAuthStore(redisClient, sessionNamespace(), ttl)
	}

	client := api.New(cfg.API.BaseURL, sessionStore, api.WithLogger(log))

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 5*time.Minute)
	var catalog memory.CatalogSource = memory.NewCatalogCache(client, catalogTTL)
	if redisClient != nil {
		catalog = infraredis.NewCatalogCache(redisClient, client, catalogTTL)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   sessionStore,
		client:  client,
		catalog: catalog,
		bus:     bus.New(),
	}, nil
}

// sessionNamespace keys the shared redis session per install.
func sessionNamespace() string {
	if v := os.Getenv("MMQ_SESSION_NAMESPACE"); v != "" {
		return v
	}
	host, err := os.Hostname()
	if err != nil {
		return "default"
	}
	return host
}
