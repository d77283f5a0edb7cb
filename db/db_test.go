package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ray1047820-bit/discord-auth-bot/config"
	"github.com/ray1047820-bit/discord-auth-bot/models"
)

// Connect must hand back a usable database: the Ping inside it and the first
// real statement both go through the sqlite driver, so a broken driver
// registration surfaces here and not at some arbitrary later query.
func TestConnect(t *testing.T) {
	conf := &config.DBConfig{
		Path: filepath.Join(t.TempDir(), "verify.db"),
	}

	db, err := Connect(conf)
	if err != nil {
		t.Fatalf("connect failed: %s", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if _, err := db.NewCreateTable().
		Model((*models.VerificationToken)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		t.Fatalf("could not create table: %s", err)
	}

	if _, err := models.CreateToken(ctx, db, "tok-1", "1000", time.Now()); err != nil {
		t.Fatalf("could not insert through connection: %s", err)
	}

	vt, err := models.TokenByValue(ctx, db, "tok-1")
	if err != nil {
		t.Fatalf("could not read back through connection: %s", err)
	}
	if vt.DiscordID != "1000" {
		t.Errorf("expected discord id 1000, got %s", vt.DiscordID)
	}
}

func TestConnectVerbose(t *testing.T) {
	conf := &config.DBConfig{
		Path:    filepath.Join(t.TempDir(), "verify.db"),
		Verbose: true,
	}

	db, err := Connect(conf)
	if err != nil {
		t.Fatalf("connect with debug hook failed: %s", err)
	}
	db.Close()
}
