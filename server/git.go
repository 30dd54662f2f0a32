package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/gitrepo"
	"github.com/skillforge/depot/logging"
	"github.com/skillforge/depot/pktline"
)

const (
	refAdvertisementMime = "application/x-git-upload-pack-advertisement"
	uploadPackResultMime = "application/x-git-upload-pack-result"
	looseObjectMime      = "application/x-git-loose-object"

	headRef = "refs/heads/main"

	// Capabilities advertised on the single ref. shallow is the one that
	// matters; without it clients refuse to send deepen lines.
	capabilities = "shallow no-progress agent=skillforge-depot/1.0"
)

// Loose objects are content-addressed, so a served id can never change.
const immutableCacheControl = "public, max-age=31536000, immutable"

const maxNegotiationBody = 1 << 20

// GitHandler serves both transports of the fabricated repository: the dumb
// protocol (plain refs, HEAD, loose objects) and the smart protocol
// (advertisement plus upload-pack negotiation).
type GitHandler struct {
	Gate  gate.Gate
	API   api.Client
	Packs *gitrepo.Cache
}

// packFor resolves the skill behind tok and returns its assembled pack,
// reusing the cache so both rounds of one clone observe the same bytes.
func (h *GitHandler) packFor(tok *gate.DownloadToken) (*gitrepo.Pack, error) {
	skill, err := h.API.GetSkill(tok.SkillID)
	if err != nil {
		return nil, err
	}

	content := skillContent(skill)
	key := gitrepo.Fingerprint(skill.ID, len(content))
	if pack, ok := h.Packs.Get(key); ok {
		return pack, nil
	}

	message := fmt.Sprintf("Publish %s", skillFileName(skill))
	pack, err := gitrepo.Assemble(skillFileName(skill), content, message)
	if err != nil {
		return nil, err
	}

	h.Packs.Put(key, pack)
	return pack, nil
}

// InfoRefs answers both transports' first request. This is the request
// that spends a token use; everything after it in the same clone only
// verifies.
func (h *GitHandler) InfoRefs(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	tok, err := authorize(h.Gate, r, true, gate.PurposeGitClone)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	pack, err := h.packFor(tok)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	switch classifyInfoRefs(r) {
	case kindAdvertisement:
		// HEAD goes first, carrying the capability list and the symref
		// that tells clients which branch to check out. Without it, a
		// client whose default branch name differs cannot resolve HEAD
		// after the transfer.
		var body []byte
		body = pktline.Append(body, "# service=git-upload-pack\n")
		body = pktline.AppendFlush(body)
		body = pktline.Append(body, fmt.Sprintf("%s HEAD\x00%s symref=HEAD:%s\n", pack.HeadCommitID, capabilities, headRef))
		body = pktline.Append(body, fmt.Sprintf("%s %s\n", pack.HeadCommitID, headRef))
		body = pktline.AppendFlush(body)

		w.Header().Set("Content-Type", refAdvertisementMime)
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(body)

	default: // kindRefFetch
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = fmt.Fprintf(w, "%s\t%s\n", pack.HeadCommitID, headRef)
	}
}

func (h *GitHandler) Head(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	if _, err := authorize(h.Gate, r, false, gate.PurposeGitClone); err != nil {
		writeGateError(log, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "ref: %s\n", headRef)
}

func (h *GitHandler) LooseObject(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	id, ok := gitrepo.ParseLoosePath(chi.URLParam(r, "prefix"), chi.URLParam(r, "remainder"))
	if !ok {
		log.Info("Rejecting malformed object path",
			zap.String("prefix", chi.URLParam(r, "prefix")),
			zap.String("remainder", chi.URLParam(r, "remainder")))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Malformed object path"))
		return
	}

	tok, err := authorize(h.Gate, r, false, gate.PurposeGitClone)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	pack, err := h.packFor(tok)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	obj, ok := pack.Objects[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))
		return
	}

	w.Header().Set("Content-Type", looseObjectMime)
	w.Header().Set("Cache-Control", immutableCacheControl)
	_, _ = w.Write(obj.Compressed)
}

// UploadPack drives the smart negotiation. The whole response is composed
// in memory before the first byte goes out, so a failed assembly can never
// truncate a stream mid-pack.
func (h *GitHandler) UploadPack(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	tok, err := authorize(h.Gate, r, false, gate.PurposeGitClone)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxNegotiationBody))
	if err != nil {
		log.Error("Failed reading negotiation body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Unreadable request body"))
		return
	}

	req, err := pktline.ParseUploadPackRequest(body)
	if err != nil {
		log.Info("Rejecting malformed upload-pack request", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Malformed upload-pack request"))
		return
	}

	pack, err := h.packFor(tok)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	var out []byte
	switch classifyNegotiation(req) {
	case kindNegotiationRound1:
		// Any positive depth covers the whole single-commit history, so
		// the boundary is always the head commit. The packfile only
		// ships once the client acknowledges with done.
		out = pktline.Append(out, fmt.Sprintf("shallow %s\n", pack.HeadCommitID))
		out = pktline.AppendFlush(out)

	default: // kindNegotiationRound2
		if shallowNegotiation(req) {
			out = pktline.Append(out, fmt.Sprintf("shallow %s\n", pack.HeadCommitID))
			out = pktline.AppendFlush(out)
		}
		out = pktline.Append(out, "NAK\n")
		out = append(out, pack.Data...)
	}

	w.Header().Set("Content-Type", uploadPackResultMime)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(out)
}
