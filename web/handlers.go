package web

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<h1>Verification server is running</h1>")
}

// handleVerify renders the confirmation form for a redeemable token. It only
// reads, so reloading the page cannot burn the token.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if _, err := s.svc.Inspect(r.Context(), token); err != nil {
		s.renderFail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := verifyTmpl.Execute(w, struct{ Token string }{Token: token}); err != nil {
		s.logger.Error("could not render verify page", "err", err)
	}
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")

	if _, err := s.svc.Complete(r.Context(), token, clientAddr(r)); err != nil {
		s.renderFail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := successTmpl.Execute(w, nil); err != nil {
		s.logger.Error("could not render success page", "err", err)
	}
}

func (s *Server) renderFail(w http.ResponseWriter, err error) {
	reason, status := reasonFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("redemption failed", "err", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := failTmpl.Execute(w, struct{ Reason string }{Reason: reason}); err != nil {
		s.logger.Error("could not render error page", "err", err)
	}
}

func reasonFor(err error) (string, int) {
	var rejected *autherror.GrantRejectedError

	switch {
	case errors.Is(err, autherror.ErrTokenNotFound):
		return "unknown token", http.StatusNotFound
	case errors.Is(err, autherror.ErrTokenUsed):
		return "token already used", http.StatusConflict
	case errors.As(err, &rejected):
		return fmt.Sprintf("role grant failed: %d", rejected.StatusCode), http.StatusBadGateway
	}
	return "verification failed", http.StatusInternalServerError
}
