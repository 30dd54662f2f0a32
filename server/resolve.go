package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/logging"
)

// ResolveHandler answers the bare short-code URL. Browsers bounce to the
// skill's catalog page; everything else gets a JSON document describing
// the download endpoints. Resolution never spends a token use.
type ResolveHandler struct {
	Gate        gate.Gate
	API         api.Client
	ExternalURL string
}

type resolveResponse struct {
	ShortCode  string    `json:"short_code"`
	Title      string    `json:"title"`
	CloneURL   string    `json:"clone_url"`
	TarballURL string    `json:"tarball_url"`
	ExpiresAt  time.Time `json:"expires_at"`
	UsesLeft   int64     `json:"uses_left"`
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	tok, err := authorize(h.Gate, r, false)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	skill, err := h.API.GetSkill(tok.SkillID)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	if wantsHTML(r) && skill.PageURL != "" {
		http.Redirect(w, r, skill.PageURL, http.StatusFound)
		return
	}

	code := chi.URLParam(r, "code")
	resp := resolveResponse{
		ShortCode:  code,
		Title:      skill.Title,
		CloneURL:   h.ExternalURL + "/" + code + ".git",
		TarballURL: h.ExternalURL + "/" + code + "/archive.tar.gz",
		ExpiresAt:  tok.ExpiresAt,
		UsesLeft:   tok.MaxUses - tok.UseCount,
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed encoding resolve response", zap.Error(err))
	}
}
