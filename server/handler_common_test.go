//go:build unit

package server

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/gitrepo"
	"github.com/skillforge/depot/logging"
	"github.com/skillforge/depot/mocks"
)

var nopLoggerMiddleware = logging.RequestLogger(zap.NewNop())

func ResponseData(t *testing.T, resp *http.Response) []byte {
	defer func(body io.ReadCloser) { _ = body.Close() }(resp.Body)
	d, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return d
}

type MockList struct {
	Gate            *mocks.MockGate
	API             *mocks.MockAPIClient
	StorageProvider *mocks.MockProvider
	Redis           *mocks.MockRedisClient
}

func MakeMocks(t *testing.T) *MockList {
	ctrl := gomock.NewController(t)
	return &MockList{
		Gate:            mocks.NewMockGate(ctrl),
		API:             mocks.NewMockAPIClient(ctrl),
		StorageProvider: mocks.NewMockProvider(ctrl),
		Redis:           mocks.NewMockRedisClient(ctrl),
	}
}

func MakeGitHandler(t *testing.T) (*MockList, *GitHandler) {
	mock := MakeMocks(t)
	hand := &GitHandler{
		Gate:  mock.Gate,
		API:   mock.API,
		Packs: gitrepo.NewCache(packCacheTTL, packCacheCapacity),
	}
	return mock, hand
}

func MakeArchiveHandler(t *testing.T) (*MockList, *ArchiveHandler) {
	mock := MakeMocks(t)
	hand := &ArchiveHandler{
		Gate:    mock.Gate,
		API:     mock.API,
		Storage: mock.StorageProvider,
		Locks:   mock.Redis,
	}
	return mock, hand
}

func MakeResolveHandler(t *testing.T) (*MockList, *ResolveHandler) {
	mock := MakeMocks(t)
	hand := &ResolveHandler{
		Gate:        mock.Gate,
		API:         mock.API,
		ExternalURL: "https://depot.test",
	}
	return mock, hand
}

func cloneToken(code string) *gate.DownloadToken {
	return &gate.DownloadToken{
		ShortCode: code,
		SkillID:   42,
		Purpose:   gate.PurposeGitClone,
		MaxUses:   5,
		UseCount:  1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func tarballToken(code string) *gate.DownloadToken {
	tok := cloneToken(code)
	tok.Purpose = gate.PurposeTarball
	return tok
}

func sampleSkill() *api.Skill {
	return &api.Skill{
		ID:       42,
		Slug:     "word-counting",
		Title:    "Word Counting",
		FileName: "SKILL.md",
		Content:  "# Word Counting\n\nCount the words.\n",
		PageURL:  "https://skillforge.test/skills/word-counting",
	}
}
