package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ray1047820-bit/discord-auth-bot/config"
	"github.com/ray1047820-bit/discord-auth-bot/db"
	"github.com/ray1047820-bit/discord-auth-bot/verify"
)

func usage() {
	flag.Usage()
	fmt.Printf("commands:\n\tissue <discord_id>\n\tlist\n")
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// The granter is nil on purpose: this tool only issues and lists, it
	// never completes a redemption.
	svc := verify.NewService(db, logger, nil, conf.DiscordConfig.AdminID)

	ctx := context.Background()
	cmd := flag.Arg(0)

	if cmd == "issue" {
		if len(flag.Args()) < 2 {
			log.Println("missing arguments")
			usage()
			os.Exit(1)
		}

		discordID := flag.Arg(1)
		token, err := svc.Issue(ctx, discordID)
		if err != nil {
			log.Fatalf("could not issue token: %s", err)
		}

		fmt.Printf("%s/verify?token=%s\n", conf.HTTPConfig.BaseURL, token)
	} else if cmd == "list" {
		rows, err := svc.Report(ctx, conf.DiscordConfig.AdminID)
		if err != nil {
			log.Fatalf("could not list used tokens: %s", err)
		}

		if len(rows) == 0 {
			fmt.Println("no verification records")
			return
		}

		for _, row := range rows {
			fmt.Printf("%s\t%s\t%s\n", row.DiscordID, row.SourceIP, row.UsedAt.Format("2006-01-02 15:04:05"))
		}
	} else {
		usage()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.FromFile(path)
}
