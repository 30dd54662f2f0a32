package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/gitrepo"
	"github.com/skillforge/depot/logging"
	"github.com/skillforge/depot/redis"
	"github.com/skillforge/depot/storage"
)

// Pack cache tuning: short enough that a republished skill shows up
// quickly, long enough to cover the few sequential requests one clone
// issues.
const (
	packCacheTTL      = time.Minute
	packCacheCapacity = 128
)

const defaultFileName = "SKILL.md"

type Config struct {
	Logger           *zap.Logger
	StorageMode      string
	LocalStoragePath string
	S3BucketName     string
	BindAddress      string
	ExternalURL      string
	RedisClient      redis.Client
}

func (c *Config) MakeProvider(apiClient api.Client) (*Provider, error) {
	prov, err := c.storageProvider()
	if err != nil {
		return nil, err
	}

	srv := &Provider{
		Logger:          c.Logger,
		StorageProvider: prov,
		Redis:           c.RedisClient,
		API:             apiClient,
		Packs:           gitrepo.NewCache(packCacheTTL, packCacheCapacity),
		ExternalURL:     strings.TrimSuffix(c.ExternalURL, "/"),
	}

	return srv, nil
}

func (c *Config) storageProvider() (storage.Provider, error) {
	var (
		provider        storage.Provider
		storageLogField zap.Field
		err             error
	)

	if c.StorageMode == "local" {
		provider, err = storage.NewLocalStorage(c.LocalStoragePath)
		storageLogField = zap.String("local_storage_path", c.LocalStoragePath)

	} else {
		provider, err = storage.NewS3(c.S3BucketName)
		storageLogField = zap.String("bucket_name", c.S3BucketName)
	}

	if err != nil {
		c.Logger.Error("Storage provider initialization failed", zap.Error(err))
		return nil, err
	}

	c.Logger.Info("Storage provider initialization succeeded",
		zap.String("provider_kind", c.StorageMode),
		storageLogField,
	)

	return provider, nil
}

// Provider is the composition root: it owns the pack cache and hands the
// handlers their collaborators. No handler keeps ambient state of its own.
type Provider struct {
	Logger          *zap.Logger
	StorageProvider storage.Provider
	Redis           redis.Client
	API             api.Client
	Packs           *gitrepo.Cache
	ExternalURL     string
}

func (p *Provider) MakeMux() *chi.Mux {
	gitHandler := &GitHandler{Gate: p.Redis, API: p.API, Packs: p.Packs}
	archiveHandler := &ArchiveHandler{Gate: p.Redis, API: p.API, Storage: p.StorageProvider, Locks: p.Redis}
	resolveHandler := &ResolveHandler{Gate: p.Redis, API: p.API, ExternalURL: p.ExternalURL}

	r := chi.NewRouter()
	r.Use(logging.RequestLogger(p.Logger))

	r.Get("/{code}", resolveHandler.Resolve)
	r.Get("/{code}/archive.tar.gz", archiveHandler.Download)

	r.Get("/{code}.git/info/refs", gitHandler.InfoRefs)
	r.Get("/{code}.git/HEAD", gitHandler.Head)
	r.Get("/{code}.git/objects/{prefix}/{remainder}", gitHandler.LooseObject)
	r.Post("/{code}.git/git-upload-pack", gitHandler.UploadPack)

	return r
}

// clientIP prefers the first forwarded address so rate limiting keys on
// the caller, not the load balancer in front of the depot.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		addr, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(addr)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// authorize runs the gate sequence shared by every endpoint: rate limit
// first, then either consume or merely verify the download token behind
// the short code, depending on the protocol phase.
func authorize(g gate.Gate, r *http.Request, consume bool, purposes ...gate.Purpose) (*gate.DownloadToken, error) {
	if err := g.AllowIP(clientIP(r)); err != nil {
		return nil, err
	}

	code := chi.URLParam(r, "code")

	var (
		tok *gate.DownloadToken
		err error
	)
	if consume {
		tok, err = g.ConsumeToken(code)
	} else {
		tok, err = g.VerifyToken(code)
	}
	if err != nil {
		return nil, err
	}

	if len(purposes) > 0 {
		allowed := false
		for _, p := range purposes {
			if tok.Purpose == p {
				allowed = true
				break
			}
		}
		if !allowed {
			// A token redeemed against the wrong endpoint reads the
			// same as no token at all.
			return nil, gate.ErrTokenNotFound{Code: code}
		}
	}

	return tok, nil
}

func skillFileName(s *api.Skill) string {
	if s.FileName != "" {
		return s.FileName
	}
	return defaultFileName
}

// placeholderContent stands in for a skill whose document the catalog
// could not materialize. Deterministic so object ids stay stable.
func placeholderContent(s *api.Skill) string {
	name := s.Title
	if name == "" {
		name = s.Slug
	}
	return fmt.Sprintf("# %s\n\nThis skill's content is temporarily unavailable.\n", name)
}

func skillContent(s *api.Skill) []byte {
	if s.Content == "" {
		return []byte(placeholderContent(s))
	}
	return []byte(s.Content)
}
