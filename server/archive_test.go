//go:build unit

package server

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/heyvito/httptest-go"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/depot/gate"
	"github.com/skillforge/depot/storage"
)

func TestArchiveHandler_Download(t *testing.T) {
	exec := func(req *http.Request, hand *ArchiveHandler) *http.Response {
		return httptest.ExecuteMiddlewareWithRequest(req, http.HandlerFunc(hand.Download), nopLoggerMiddleware)
	}

	prepare := func() *http.Request {
		return httptest.PrepareRequest(httptest.EmptyRequest(),
			httptest.WithURLParam("code", "abc123"))
	}

	expectLock := func(mock *MockList) {
		mock.Redis.EXPECT().Locking("42", gomock.Any(), gomock.Any()).DoAndReturn(func(_ string, _ time.Duration, fn func() error) error {
			return fn()
		})
	}

	t.Run("Exhausted token", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(nil, gate.ErrTokenExhausted{Code: "abc123"})

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusGone, resp.StatusCode)
		assert.Equal(t, "Download link has no uses left", string(ResponseData(t, resp)))
	})

	t.Run("Clone token rejected", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(cloneToken("abc123"), nil)

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Pre-built bundle streams from storage", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(tarballToken("abc123"), nil)

		skill := sampleSkill()
		skill.HasBundle = true
		mock.API.EXPECT().GetSkill(int64(42)).Return(skill, nil)
		expectLock(mock)

		bundle := "pretend this is a tarball"
		mock.StorageProvider.EXPECT().GetBundle(int64(42)).Return(
			&storage.Item{Size: int64(len(bundle)), Mime: "application/gzip"},
			io.NopCloser(strings.NewReader(bundle)), nil)
		mock.StorageProvider.EXPECT().TouchBundle(int64(42)).Return(nil)

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/gzip", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="word-counting.tar.gz"`, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, bundle, string(ResponseData(t, resp)))
	})

	t.Run("Touch failure does not abort the download", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(tarballToken("abc123"), nil)

		skill := sampleSkill()
		skill.HasBundle = true
		mock.API.EXPECT().GetSkill(int64(42)).Return(skill, nil)
		expectLock(mock)

		bundle := "bundle bytes"
		mock.StorageProvider.EXPECT().GetBundle(int64(42)).Return(
			&storage.Item{Size: int64(len(bundle))},
			io.NopCloser(strings.NewReader(bundle)), nil)
		mock.StorageProvider.EXPECT().TouchBundle(int64(42)).Return(fmt.Errorf("boom"))

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, bundle, string(ResponseData(t, resp)))
	})

	t.Run("Missing bundle falls back to a synthesized tarball", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(tarballToken("abc123"), nil)

		skill := sampleSkill()
		skill.HasBundle = true
		mock.API.EXPECT().GetSkill(int64(42)).Return(skill, nil)
		expectLock(mock)
		mock.StorageProvider.EXPECT().GetBundle(int64(42)).Return(nil, nil, storage.ErrNotExist{})

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assertTarball(t, ResponseData(t, resp), "word-counting/SKILL.md", skill.Content)
	})

	t.Run("Storage failure", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(tarballToken("abc123"), nil)

		skill := sampleSkill()
		skill.HasBundle = true
		mock.API.EXPECT().GetSkill(int64(42)).Return(skill, nil)
		expectLock(mock)
		mock.StorageProvider.EXPECT().GetBundle(int64(42)).Return(nil, nil, fmt.Errorf("boom"))

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("No bundle builds a single-file tarball", func(t *testing.T) {
		mock, hand := MakeArchiveHandler(t)
		mock.Gate.EXPECT().AllowIP(gomock.Any()).Return(nil)
		mock.Gate.EXPECT().ConsumeToken("abc123").Return(tarballToken("abc123"), nil)

		skill := sampleSkill()
		mock.API.EXPECT().GetSkill(int64(42)).Return(skill, nil)

		resp := exec(prepare(), hand)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `attachment; filename="word-counting.tar.gz"`, resp.Header.Get("Content-Disposition"))
		assertTarball(t, ResponseData(t, resp), "word-counting/SKILL.md", skill.Content)
	})
}

func assertTarball(t *testing.T, data []byte, entryPath, content string) {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, entryPath, hdr.Name)

	extracted, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, content, string(extracted))
}
