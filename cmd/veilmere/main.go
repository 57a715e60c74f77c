package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/config"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	coresystem "github.com/veilmere/server/internal/core/system"
	"github.com/veilmere/server/internal/data"
	"github.com/veilmere/server/internal/handler"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/persist"
	"github.com/veilmere/server/internal/scripting"
	"github.com/veilmere/server/internal/system"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "server.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Encoding
	if cfg.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting", zap.String("server", cfg.Server.Name))

	items, err := data.LoadItemTable(filepath.Join(cfg.World.DataDir, "items.yaml"))
	if err != nil {
		return err
	}
	items.MustGet(system.PossessToolKey)
	log.Info("item table loaded", zap.Int("items", items.Count()))

	creatures, err := data.LoadCreatureTable(filepath.Join(cfg.World.DataDir, "creatures.yaml"))
	if err != nil {
		return err
	}

	dsn := cfg.Database.DSN()
	if err := persist.Migrate(dsn); err != nil {
		return err
	}
	pool, err := persist.Connect(context.Background(), dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := persist.NewAccountRepo(pool, cfg.Database.AutoCreateAccounts, log)
	characters := persist.NewCharacterRepo(pool)

	scripts := scripting.New(log)
	defer scripts.Close()
	if err := scripts.LoadDir(cfg.World.ScriptsDir); err != nil {
		return err
	}

	w := world.NewWorld()
	bus := event.NewBus()
	interact := system.NewInteraction(w, items, bus, log)
	spawnCreatures(w, creatures, log)

	deps := &handler.Deps{
		World:      w,
		Interact:   interact,
		Items:      items,
		Accounts:   accounts,
		Characters: characters,
		Scripts:    scripts,
		Bus:        bus,
		Log:        log,
	}
	registry := packet.NewRegistry(log)
	deps.RegisterAll(registry)

	server, err := net.NewServer(cfg.Server.BindAddr,
		cfg.Network.InQueueSize, cfg.Network.OutQueueSize,
		cfg.Network.WriteTimeout(), log)
	if err != nil {
		return err
	}
	go server.AcceptLoop()
	log.Info("listening", zap.String("addr", server.Addr().String()))

	sessions := net.NewSessionStore()

	onDisconnect := func(sess *net.Session, id ecs.EntityID) {
		pl, ok := w.Players.Get(id)
		if !ok {
			return
		}
		pos, ok := w.Pos.Get(id)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := characters.SaveWaypoint(ctx, pl.Alias, pos.X, pos.Y, pos.Z); err != nil {
			log.Warn("logout save failed",
				zap.String("alias", pl.Alias), zap.Error(err))
		}
	}

	runner := coresystem.NewRunner()
	runner.Register(system.NewInputSystem(server, sessions, registry, w, interact, bus, log, onDisconnect))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewMountFollowSystem(w))
	runner.Register(system.NewOutputSystem(sessions))
	runner.Register(system.NewCleanupSystem(w))

	event.Subscribe(bus, func(ev event.PlayerJoined) {
		log.Info("player joined", zap.String("alias", ev.Alias), zap.Uint64("uid", uint64(ev.UID)))
	})
	event.Subscribe(bus, func(ev event.PlayerLeft) {
		log.Info("player left", zap.Uint64("session", ev.SessionID))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	interval := cfg.World.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("game loop running", zap.Duration("tick", interval))

	for {
		select {
		case <-ticker.C:
			bus.SwapBuffers()
			runner.Tick(interval)
		case sig := <-sigCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			server.Shutdown()
			sessions.ForEach(func(s *net.Session) { s.Close() })
			return nil
		}
	}
}

// spawnCreatures populates the world from the boot spawn list. Rideable
// creatures get an unmounted MountState so players can claim them.
func spawnCreatures(w *world.World, table *data.CreatureTable, log *zap.Logger) {
	for _, sp := range table.Spawns() {
		id, _ := w.CreateEntity()
		pos := component.Pos{X: sp.X, Y: sp.Y, Z: sp.Z}
		w.Pos.Set(id, &pos)
		w.Agents.Set(id, &component.Agent{PatrolOrigin: pos})
		if sp.Rideable {
			ms := component.Unmounted()
			w.MountStates.Set(id, &ms)
		}
	}
	log.Info("creatures spawned", zap.Int("count", table.Count()))
}
