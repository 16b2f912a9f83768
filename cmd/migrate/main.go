// Command migrate manages the PostgreSQL schema in migrations/.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"github.com/ventureflow/backend/internal/infrastructure/logger"
	"github.com/ventureflow/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "path to the migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("invalid migrations path", zap.Error(err))
	}

	if err := run(args, absPath, log); err != nil {
		log.Fatal("migrate failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description, time.Now())
		if err != nil {
			return err
		}
		log.Info("migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return nil
	case "list":
		names, err := migration.ListMigrations(dir)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	// .env is optional; real environment variables win
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("SQL migrations target postgres; driver %q uses auto-migrate", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		return m.GoTo(uint(n))
	case "force":
		n, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("current version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s", usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `VentureFlow schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back all migrations
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to a specific version
  version               show the applied version
  force <version>       mark a version as applied (clears a dirty state)
  create <name> [desc]  create an empty up/down pair
  list                  list available migrations

Flags:
  -path string          migrations directory (default "migrations")
  -log-level string     log level (default "info")

Connection settings come from config.toml and VF_DATABASE_* variables.`)
}
