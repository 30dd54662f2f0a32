package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/archive"
	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/logging"
	"github.com/skillforge/depot/storage"
)

// bundleLocker serializes bundle access against the janitor purging the
// same object mid-download.
type bundleLocker interface {
	Locking(id string, timeout time.Duration, fn func() error) error
}

// ArchiveHandler serves the non-Git download path. A rich pre-built bundle
// in durable storage wins; otherwise the artifact is packaged as a
// single-file tarball on the fly.
type ArchiveHandler struct {
	Gate    gate.Gate
	API     api.Client
	Storage storage.Provider
	Locks   bundleLocker
}

func attachmentHeaders(w http.ResponseWriter, name string, size int64) {
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r)

	tok, err := authorize(h.Gate, r, true, gate.PurposeTarball, gate.PurposeDirect)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	skill, err := h.API.GetSkill(tok.SkillID)
	if err != nil {
		writeGateError(log, w, err)
		return
	}

	downloadName := skill.Slug + ".tar.gz"

	if skill.HasBundle {
		var (
			meta   *storage.Item
			stream io.ReadCloser
		)
		err = h.Locks.Locking(fmt.Sprintf("%d", skill.ID), 10*time.Minute, func() error {
			meta, stream, err = h.Storage.GetBundle(skill.ID)
			if err != nil {
				return err
			}
			if err := h.Storage.TouchBundle(skill.ID); err != nil {
				log.Warn("Failed touching bundle", zap.Int64("skill_id", skill.ID), zap.Error(err))
			}
			return nil
		})
		switch err.(type) {
		case nil:
			defer func() { _ = stream.Close() }()

			attachmentHeaders(w, downloadName, meta.Size)
			if _, err = io.Copy(w, stream); err != nil {
				log.Error("Failed transferring bundle to peer", zap.Error(err))
			}
			return

		case storage.ErrNotExist:
			// The catalog believes a bundle exists but storage lost it.
			// Fall through to the synthesized tarball.
			log.Warn("Bundle flagged but absent from storage", zap.Int64("skill_id", skill.ID))

		default:
			log.Error("Failed fetching bundle from storage", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Internal server error"))
			return
		}
	}

	entryPath := skill.Slug + "/" + skillFileName(skill)
	data, err := archive.Build(entryPath, skillContent(skill))
	if err != nil {
		log.Error("Failed building tarball", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
		return
	}

	attachmentHeaders(w, downloadName, int64(len(data)))
	_, _ = w.Write(data)
}
