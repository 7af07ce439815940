package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/logger"
	"github.com/gemline/backoffice/internal/infrastructure/migration"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		direction      string
		steps          int
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&direction, "direction", "up", "Migration direction: up or down")
	flag.IntVar(&steps, "steps", 0, "Number of migrations to apply (0 = all)")
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log := logger.Must(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	migrationsPath = resolveMigrationsPath(migrationsPath)
	args := flag.Args()

	// commands that only touch the filesystem
	if len(args) > 0 {
		switch args[0] {
		case "create":
			if len(args) < 2 {
				log.Fatal("Migration name required. Usage: migrate create <name> [description]")
			}
			description := ""
			if len(args) > 2 {
				description = args[2]
			}
			mf, err := migration.CreateMigration(migrationsPath, args[1], description)
			if err != nil {
				log.Fatal("Failed to create migration", zap.Error(err))
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return
		case "list":
			migrations, err := migration.ListMigrations(migrationsPath)
			if err != nil {
				log.Fatal("Failed to list migrations", zap.Error(err))
			}
			for _, m := range migrations {
				fmt.Println("  -", m)
			}
			log.Info("Available migrations", zap.Int("count", len(migrations)))
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.Database.Driver == "sqlite" {
		migrateSQLite(log, cfg, direction, args)
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	log.Info("Migration started",
		zap.String("migrations_path", migrationsPath),
		zap.String("database", cfg.Database.DBName),
	)

	if len(args) == 0 {
		dir, err := migration.ParseDirection(direction)
		if err != nil {
			log.Fatal("Invalid -direction", zap.Error(err))
		}
		if steps < 0 {
			log.Fatal("-steps must not be negative, use -direction down")
		}
		if err := m.Run(dir, steps); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		return
	}

	switch args[0] {
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}
	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}
	default:
		log.Error("Unknown command", zap.String("command", args[0]))
		printUsage()
		os.Exit(1)
	}
}

// migrateSQLite builds a local development schema from the models; the SQL
// files are postgres specific.
func migrateSQLite(log *zap.Logger, cfg *config.Config, direction string, args []string) {
	if direction != string(migration.DirectionUp) || len(args) > 0 {
		log.Fatal("sqlite databases only support -direction up")
	}
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{})
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("AutoMigrate failed", zap.Error(err))
	}
	log.Info("sqlite schema up to date", zap.String("path", cfg.Database.Path))
}

// resolveMigrationsPath finds migrations/ next to the working directory or
// two levels above the binary.
func resolveMigrationsPath(p string) string {
	if p == "" {
		p = defaultMigrationsPath
		if _, err := os.Stat(p); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					p = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Back-office schema migration tool

Usage:
  migrate [flags]                 apply migrations in -direction
  migrate [flags] <command> [args]

Commands:
  version               Show current migration version
  goto <version>        Migrate to a specific version
  force <version>       Set the version without running SQL (repairs a dirty schema)
  create <name> [desc]  Create the next numbered migration pair
  list                  List migrations on disk

Flags:
  -direction string     up or down (default: up)
  -steps int            number of migrations to apply, 0 = all (default: 0)
  -path string          migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, error (default: info)

Configuration comes from config.toml, .env and JRB_DATABASE_* variables.

Examples:
  migrate                        # apply everything pending
  migrate -direction down -steps 1
  migrate create add_store_region "Region column for reporting"`)
}
