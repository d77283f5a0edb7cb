package config

import (
	"os"
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("GUILD_ID", "1")
	t.Setenv("ROLE_ID", "2")
	t.Setenv("ADMIN_ID", "3")
	t.Setenv("BASE_URL", "https://verify.example.com")

	conf, err := FromEnv()
	if err != nil {
		t.Fatalf("could not read env config: %s", err)
	}

	if conf.DiscordConfig.BotToken != "tok" {
		t.Errorf("unexpected bot token: %s", conf.DiscordConfig.BotToken)
	}
	if conf.DiscordConfig.Prefix != ";" {
		t.Errorf("expected default prefix ;, got %s", conf.DiscordConfig.Prefix)
	}
	if conf.HTTPConfig.Addr != ":5000" {
		t.Errorf("expected default addr :5000, got %s", conf.HTTPConfig.Addr)
	}
	if conf.DBConfig.Path != "verify.db" {
		t.Errorf("expected default db path verify.db, got %s", conf.DBConfig.Path)
	}
}

func TestFromEnvMissingRequired(t *testing.T) {
	for _, v := range []string{"BOT_TOKEN", "GUILD_ID", "ROLE_ID", "ADMIN_ID", "BASE_URL"} {
		t.Setenv(v, "") // registers restore of any real value
		os.Unsetenv(v)
	}

	if _, err := FromEnv(); err == nil {
		t.Error("expected an error when required vars are missing")
	}
}
