package gate

import "time"

// Purpose narrows what a download token may be redeemed for.
type Purpose string

const (
	PurposeGitClone Purpose = "git_clone"
	PurposeTarball  Purpose = "tarball"
	PurposeDirect   Purpose = "direct"
)

// DownloadToken is the gate's view of one published download link. The
// full token is never stored; only its hash is, and the short code is the
// public handle embedded in URLs.
type DownloadToken struct {
	ShortCode string
	TokenHash string
	SkillID   int64
	Purpose   Purpose
	MaxUses   int64
	UseCount  int64
	ExpiresAt time.Time
}

// Gate validates short codes, enforces per-IP rate limits, and consumes
// token uses. Consumption is atomic with respect to concurrent requests
// for the same short code; implementations own that guarantee.
type Gate interface {
	// VerifyToken checks that code references a live token without
	// spending a use.
	VerifyToken(code string) (*DownloadToken, error)

	// ConsumeToken atomically spends one use of the token behind code.
	// Under concurrent calls against a token with one remaining use,
	// exactly one caller succeeds.
	ConsumeToken(code string) (*DownloadToken, error)

	// AllowIP applies the per-address rate limit. A denial carries a
	// retry hint.
	AllowIP(addr string) error
}

// ShortCodeLength is fixed; the code alphabet gives a collision space
// large enough to treat codes as unique.
const ShortCodeLength = 6

// ValidShortCode rejects malformed codes before any store lookup.
func ValidShortCode(code string) bool {
	if len(code) != ShortCodeLength {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
