package main

import (
	"flag"
	"log"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/app"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	dir := flag.String("dir", cfg.MigrationsDir, "migrations directory")
	steps := flag.Int("steps", 1, "migrations to revert with down")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}
	url := cfg.DB.MigrationURL()

	switch cmd {
	case "up":
		err = connection.RunMigrations(*dir, url)
	case "down":
		err = connection.RollbackMigrations(*dir, url, *steps)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = connection.MigrationVersion(*dir, url)
		if err == nil {
			logger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		logger.Fatal("unknown command, expected up, down or version", zap.String("command", cmd))
	}
	if err != nil {
		logger.Fatal("migrate failed", zap.String("command", cmd), zap.Error(err))
	}
}
