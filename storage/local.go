package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func ensureDir(at string) error {
	retrying := false
	for {
		stat, err := os.Stat(at)
		if os.IsNotExist(err) && !retrying {
			if err = os.MkdirAll(at, 0755); err != nil {
				return fmt.Errorf("mkdir_p %s: %w", at, err)
			}
			retrying = true
			continue
		} else if err != nil {
			return err
		}

		if stat.IsDir() {
			return nil
		}

		return fmt.Errorf("%s: exists and is not a directory", at)
	}
}

func NewLocalStorage(basePath string) (Provider, error) {
	basePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	bundlePath := filepath.Join(basePath, "bundles")
	for _, p := range []string{basePath, bundlePath} {
		if err = ensureDir(p); err != nil {
			return nil, err
		}
	}

	return LocalStorage{
		basePath:   basePath,
		bundlePath: bundlePath,
	}, nil
}

type LocalStorage struct {
	basePath   string
	bundlePath string
}

func (l LocalStorage) pathOf(skillID int64) string {
	components := append([]string{l.bundlePath}, bundlePathComponents(skillID)...)
	return filepath.Join(components...)
}

func burninate(path string) {
	_ = os.RemoveAll(path + ".meta")
	_ = os.RemoveAll(path)
}

// ensureConsistencyOf drops half-written pairs: a bundle with no sidecar,
// or a sidecar that fails to decode, means an interrupted write.
func ensureConsistencyOf(path string) (*Item, error) {
	metaFilePath := path + ".meta"
	metaStat, err := os.Stat(metaFilePath)
	if os.IsNotExist(err) {
		_ = os.Remove(path)
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if metaStat.IsDir() {
		burninate(path)
		return nil, nil
	}

	var meta Item
	f, err := os.Open(metaFilePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if err = json.NewDecoder(f).Decode(&meta); err != nil {
		burninate(path)
		return nil, nil
	}

	return &meta, nil
}

func writeMeta(target string, meta *Item) error {
	m, err := os.OpenFile(target+".meta", os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0655)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	if err = json.NewEncoder(m).Encode(meta); err != nil {
		return err
	}

	if err = m.Sync(); err != nil {
		return err
	}

	return nil
}

func (l LocalStorage) BundleMeta(skillID int64) (*Item, error) {
	p := l.pathOf(skillID)
	meta, err := ensureConsistencyOf(p)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ErrNotExist{path: p}
	}

	return meta, nil
}

func (l LocalStorage) GetBundle(skillID int64) (*Item, io.ReadCloser, error) {
	meta, err := l.BundleMeta(skillID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(l.pathOf(skillID))
	if err != nil {
		return nil, nil, err
	}

	return meta, f, nil
}

func (l LocalStorage) SetBundle(skillID int64, mime string, objectSize int64, stream io.ReadCloser) error {
	meta := Item{
		CreatedAt:  time.Now().UTC(),
		AccessedAt: time.Now().UTC(),
		Size:       objectSize,
		Mime:       mime,
	}
	target := l.pathOf(skillID)

	err := ensureDir(filepath.Dir(target))
	if err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0655)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(f, stream)
	if err != nil {
		burninate(target)
		return err
	}

	if err = f.Sync(); err != nil {
		burninate(target)
		return err
	}

	if err = writeMeta(target, &meta); err != nil {
		burninate(target)
		return err
	}

	return nil
}

func (l LocalStorage) TouchBundle(skillID int64) error {
	p := l.pathOf(skillID)
	m, err := l.BundleMeta(skillID)
	if err != nil {
		return err
	}
	m.AccessedAt = time.Now().UTC()
	return writeMeta(p, m)
}

func (l LocalStorage) DeleteBundle(skillID int64) error {
	p := l.pathOf(skillID)
	_, err := l.BundleMeta(skillID)
	if err != nil {
		return err
	}
	burninate(p)
	return nil
}

func (l LocalStorage) PurgeAll() error {
	if err := os.RemoveAll(l.bundlePath); err != nil {
		return err
	}
	return ensureDir(l.bundlePath)
}

func (l LocalStorage) TotalSize() (int64, error) {
	var size int64 = 0

	err := filepath.WalkDir(l.bundlePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".meta") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer func() { _ = f.Close() }()

		var meta Item
		if err = json.NewDecoder(f).Decode(&meta); err != nil {
			return nil
		}
		size += meta.Size
		return nil
	})
	if err != nil {
		return 0, err
	}

	return size, nil
}
