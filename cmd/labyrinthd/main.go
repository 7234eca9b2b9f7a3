package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duskforge/labyrinth/internal/combat"
	"github.com/duskforge/labyrinth/internal/config"
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/engine"
	"github.com/duskforge/labyrinth/internal/persistence"
	"github.com/duskforge/labyrinth/internal/session"
	"github.com/duskforge/labyrinth/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Labyrinth Core                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        a descent with no way back          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string)    { fmt.Printf("  \033[32m✓\033[0m %s\n", msg) }
func printReady(msg string) { fmt.Printf("  \033[32m▶\033[0m %s\n", msg) }

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("LABYRINTH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	printSection("content")
	dataDir := "data/yaml"
	if d := os.Getenv("LABYRINTH_DATA_DIR"); d != "" {
		dataDir = d
	}

	monsters, err := content.LoadMonsterTable(dataDir + "/monsters.yaml")
	if err != nil {
		return fmt.Errorf("load monster table: %w", err)
	}
	printStat("monsters", monsters.Count())

	weapons, err := content.LoadWeaponTable(dataDir + "/weapons.yaml")
	if err != nil {
		return fmt.Errorf("load weapon table: %w", err)
	}
	printStat("weapons", weapons.Count())

	armors, err := content.LoadArmorTable(dataDir + "/armors.yaml")
	if err != nil {
		return fmt.Errorf("load armor table: %w", err)
	}
	printStat("armors", armors.Count())

	potions, err := content.LoadPotionTable(dataDir + "/potions.yaml")
	if err != nil {
		return fmt.Errorf("load potion table: %w", err)
	}
	printStat("potions", potions.Count())

	spells, err := content.LoadSpellTable(dataDir + "/spells.yaml")
	if err != nil {
		return fmt.Errorf("load spell table: %w", err)
	}
	printStat("spells", spells.Count())

	rings, err := content.LoadRingTable(dataDir + "/rings.yaml")
	if err != nil {
		return fmt.Errorf("load ring table: %w", err)
	}
	printStat("rings", rings.Count())

	traps, err := content.LoadTrapTable(dataDir + "/traps.yaml")
	if err != nil {
		return fmt.Errorf("load trap table: %w", err)
	}
	printStat("traps", traps.Count())

	dialogue, err := content.LoadDialogueTable(dataDir+"/dialogue.yaml", log)
	if err != nil {
		return fmt.Errorf("load dialogue table: %w", err)
	}
	printOK("dialogue scripts loaded")
	fmt.Println()

	printSection("database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var saveStore engine.SaveStore
	var board engine.LeaderboardStore
	var db *persistence.DB
	if cfg.Database.DSN != "" {
		db, err = persistence.NewDB(ctx, cfg.Database, log)
		if err != nil {
			log.Warn("database unavailable, falling back to in-memory storage", zap.Error(err))
		} else {
			if err := persistence.RunMigrations(ctx, db.Pool); err != nil {
				db.Close()
				return fmt.Errorf("migrations: %w", err)
			}
			printOK("postgres connected and migrated")
			saveStore = persistence.NewCharacterStore(db)
			board = persistence.NewLeaderboardStore(db)
		}
	}
	if saveStore == nil {
		mem := persistence.NewMemoryStore()
		saveStore, board = mem, mem
		log.Info("running with in-memory save/leaderboard storage")
	}
	if db != nil {
		defer db.Close()
	}
	fmt.Println()

	tables := &engine.Tables{
		Monsters:  monsters,
		Weapons:   weapons,
		Armors:    armors,
		Potions:   potions,
		Spells:    spells,
		Rings:     rings,
		Traps:     traps,
		Dialogue:  dialogue,
		Victory:   combat.Tables{Rings: rings, Armors: armors, Weapons: weapons},
		SaveStore: saveStore,
		Board:     board,
		Review:    persistence.NewReviewClient(cfg.Review.Endpoint, nil),
	}

	host := session.NewHost(tables, log)

	srv, err := transport.NewServer(cfg.Network.BindAddress, host, log)
	if err != nil {
		return fmt.Errorf("transport server: %w", err)
	}
	go srv.AcceptLoop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", srv.Addr().String()))
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))
	srv.Shutdown()
	log.Info("server stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
