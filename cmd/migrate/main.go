package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/ray1047820-bit/discord-auth-bot/cmd/migrate/migrations"
	"github.com/ray1047820-bit/discord-auth-bot/config"
	"github.com/ray1047820-bit/discord-auth-bot/db"
)

func usage() {
	flag.Usage()
	log.Fatalf("Usage: migrate [--config <config path>] <init|up|down|status|mark_applied>\n")
}

func main() {
	configPath := flag.String("config", "", "Path to app config; env vars only when empty")
	flag.Parse()

	conf, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not parse config: %s", err)
	}

	db, err := db.Connect(&conf.DBConfig)
	if err != nil {
		log.Fatalf("could not connect to DB: %s", err)
	}

	ctx := context.Background()
	cmd := flag.Arg(0)
	migrator := migrate.NewMigrator(db, migrations.Migrations)

	if cmd == "" {
		log.Println("Missing command")
		usage()
	}

	if cmd == "init" {
		if err := migrator.Init(ctx); err != nil {
			panic(err)
		}
	} else if cmd == "up" {
		group, err := migrator.Migrate(ctx)
		if err != nil {
			panic(err)
		}

		if group.ID == 0 {
			fmt.Printf("there are no new migrations to run\n")
			return
		}

		fmt.Printf("migrated to %s\n", group)
	} else if cmd == "down" {
		group, err := migrator.Rollback(ctx)
		if err != nil {
			panic(err)
		}

		if group.ID == 0 {
			fmt.Printf("there are no groups to roll back\n")
			return
		}

		fmt.Printf("rolled back %s\n", group)
	} else if cmd == "status" {
		ms, err := migrator.MigrationsWithStatus(ctx)
		if err != nil {
			panic(err)
		}
		fmt.Printf("migrations: %s\n", ms)
		fmt.Printf("unapplied migrations: %s\n", ms.Unapplied())
		fmt.Printf("last migration group: %s\n", ms.LastGroup())
	} else if cmd == "mark_applied" {
		group, err := migrator.Migrate(ctx, migrate.WithNopMigration())
		if err != nil {
			panic(err)
		}

		if group.ID == 0 {
			fmt.Printf("there are no new migrations to mark as applied\n")
			return
		}

		fmt.Printf("marked as applied %s\n", group)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.FromFile(path)
}
