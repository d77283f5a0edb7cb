package web

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
	"github.com/ray1047820-bit/discord-auth-bot/models"
	"github.com/ray1047820-bit/discord-auth-bot/verify"
)

type stubGranter struct {
	err error
}

func (g *stubGranter) Grant(ctx context.Context, discordID string) error {
	return g.err
}

func testServer(t *testing.T, granter verify.RoleGranter) (*httptest.Server, *verify.Service) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("could not open db: %s", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if err := db.ResetModel(context.Background(), (*models.VerificationToken)(nil)); err != nil {
		t.Fatalf("could not create schema: %s", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := verify.NewService(db, logger, granter, "admin")

	srv := httptest.NewServer(NewServer(logger, svc).Router())
	t.Cleanup(srv.Close)

	return srv, svc
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read body: %s", err)
	}
	return resp.StatusCode, string(body)
}

func postComplete(t *testing.T, base, token string) (int, string) {
	t.Helper()

	resp, err := http.PostForm(base+"/complete", url.Values{"token": {token}})
	if err != nil {
		t.Fatalf("request failed: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read body: %s", err)
	}
	return resp.StatusCode, string(body)
}

func TestHome(t *testing.T) {
	srv, _ := testServer(t, &stubGranter{})

	status, body := get(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "running") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestVerifyPage(t *testing.T) {
	srv, svc := testServer(t, &stubGranter{})

	token, err := svc.Issue(context.Background(), "1000")
	if err != nil {
		t.Fatalf("issue failed: %s", err)
	}

	status, body := get(t, srv.URL+"/verify?token="+token)
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(body, token) || !strings.Contains(body, `action="/complete"`) {
		t.Errorf("confirmation form missing from body: %s", body)
	}

	// Rendering the page must not consume the token.
	if _, err := svc.Inspect(context.Background(), token); err != nil {
		t.Errorf("token consumed by GET /verify: %v", err)
	}
}

func TestVerifyPageUnknownToken(t *testing.T) {
	srv, _ := testServer(t, &stubGranter{})

	status, body := get(t, srv.URL+"/verify?token=bogus")
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
	if !strings.Contains(body, "unknown token") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestCompleteFlow(t *testing.T) {
	srv, svc := testServer(t, &stubGranter{})

	token, err := svc.Issue(context.Background(), "1000")
	if err != nil {
		t.Fatalf("issue failed: %s", err)
	}

	status, body := postComplete(t, srv.URL, token)
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "Verification complete") {
		t.Errorf("unexpected body: %s", body)
	}

	// Replaying the form hits the already-used path.
	status, body = postComplete(t, srv.URL, token)
	if status != http.StatusConflict {
		t.Errorf("expected 409 on replay, got %d", status)
	}
	if !strings.Contains(body, "already used") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestCompleteUnknownToken(t *testing.T) {
	srv, _ := testServer(t, &stubGranter{})

	status, body := postComplete(t, srv.URL, "bogus")
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
	if !strings.Contains(body, "unknown token") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestCompleteGrantRejected(t *testing.T) {
	srv, svc := testServer(t, &stubGranter{err: &autherror.GrantRejectedError{StatusCode: 403}})

	token, err := svc.Issue(context.Background(), "1000")
	if err != nil {
		t.Fatalf("issue failed: %s", err)
	}

	status, body := postComplete(t, srv.URL, token)
	if status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", status)
	}
	if !strings.Contains(body, "role grant failed: 403") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t, &stubGranter{})

	status, body := get(t, srv.URL+"/metrics")
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Errorf("prometheus output missing: %.100s", body)
	}
}

func TestClientAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:5134"
	if got := clientAddr(r); got != "192.0.2.10" {
		t.Errorf("expected 192.0.2.10, got %s", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientAddr(r); got != "203.0.113.9" {
		t.Errorf("expected 203.0.113.9, got %s", got)
	}
}
