package server

import (
	"net/http"

	"github.com/skillforge/depot/pktline"
)

// gitRequestKind is the explicit classification of every request shape the
// git endpoints serve. It is computed once per request and dispatched on,
// instead of re-branching on raw query and body shape in each handler.
type gitRequestKind int

const (
	// Smart advertisement: info/refs with the upload-pack service query.
	kindAdvertisement gitRequestKind = iota
	// Dumb plain-text ref listing: info/refs without a service query.
	kindRefFetch
	// Dumb HEAD pointer fetch.
	kindHeadFetch
	// Dumb loose object fetch by content-addressed path.
	kindLooseObjectFetch
	// First round of a shallow negotiation: wants and a deepen line, no
	// done. The response announces the shallow boundary and nothing else.
	kindNegotiationRound1
	// Terminal negotiation round: the client sent done (or never asked
	// for a bounded depth). The response carries the pack.
	kindNegotiationRound2
)

func classifyInfoRefs(r *http.Request) gitRequestKind {
	if r.URL.Query().Get("service") == "git-upload-pack" {
		return kindAdvertisement
	}
	return kindRefFetch
}

// classifyNegotiation tells the two upload-pack rounds apart. A done-only
// body with no want lines is a continuation of a shallow negotiation
// already in progress. The heuristic is sound only because every served
// repository has exactly one commit, so any positive depth covers it all.
func classifyNegotiation(req pktline.UploadPackRequest) gitRequestKind {
	if req.Shallow() && !req.Done {
		return kindNegotiationRound1
	}
	return kindNegotiationRound2
}

// shallowNegotiation reports whether the terminal round must announce a
// shallow boundary before the NAK: either the client repeated its deepen
// line, or it sent a bare done continuing round 1.
func shallowNegotiation(req pktline.UploadPackRequest) bool {
	return req.Shallow() || len(req.Wants) == 0
}
