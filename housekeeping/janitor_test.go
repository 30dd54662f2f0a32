//go:build unit

package housekeeping

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillforge/depot/mocks"
	"github.com/skillforge/depot/storage"
)

func makeJanitor(t *testing.T) (*mocks.MockProvider, *Janitor) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	j := &Janitor{
		log:            zap.NewNop(),
		storage:        provider,
		runningMu:      &sync.Mutex{},
		runningTasks:   &sync.WaitGroup{},
		currentTasksMu: &sync.Mutex{},
		currentTasks:   make(map[*Task]bool),
	}

	return provider, j
}

func runTask(t *testing.T, j *Janitor, raw string) {
	t.Helper()

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	task.original = []byte(raw)

	j.runningTasks.Add(1)
	j.currentTasksMu.Lock()
	j.currentTasks[&task] = true
	j.currentTasksMu.Unlock()

	j.performTask(&task)
	j.runningTasks.Wait()
}

func TestJanitor_PerformTask(t *testing.T) {
	t.Run("purge-bundle", func(t *testing.T) {
		provider, j := makeJanitor(t)
		provider.EXPECT().DeleteBundle(int64(42)).Return(nil)

		runTask(t, j, `{"task":"purge-bundle","task_id":"t1","skill_id":42}`)
	})

	t.Run("purge-bundle with absent bundle", func(t *testing.T) {
		provider, j := makeJanitor(t)
		provider.EXPECT().DeleteBundle(int64(42)).Return(storage.ErrNotExist{})

		runTask(t, j, `{"task":"purge-bundle","task_id":"t1","skill_id":42}`)
	})

	t.Run("purge-bundle with storage failure", func(t *testing.T) {
		provider, j := makeJanitor(t)
		provider.EXPECT().DeleteBundle(int64(42)).Return(fmt.Errorf("boom"))

		runTask(t, j, `{"task":"purge-bundle","task_id":"t1","skill_id":42}`)
	})

	t.Run("purge-bundle with malformed payload", func(t *testing.T) {
		_, j := makeJanitor(t)

		// skill_id carries the wrong type, so decoding fails and storage
		// is never touched.
		runTask(t, j, `{"task":"purge-bundle","task_id":"t1","skill_id":"forty-two"}`)
	})

	t.Run("purge-all", func(t *testing.T) {
		provider, j := makeJanitor(t)
		provider.EXPECT().PurgeAll().Return(nil)

		runTask(t, j, `{"task":"purge-all","task_id":"t2"}`)
	})

	t.Run("purge-all with storage failure", func(t *testing.T) {
		provider, j := makeJanitor(t)
		provider.EXPECT().PurgeAll().Return(fmt.Errorf("boom"))

		runTask(t, j, `{"task":"purge-all","task_id":"t2"}`)
	})

	t.Run("unknown task is ignored", func(t *testing.T) {
		_, j := makeJanitor(t)

		runTask(t, j, `{"task":"defragment-mainframe","task_id":"t3"}`)
	})
}

func TestTaskInto(t *testing.T) {
	raw := []byte(`{"task":"purge-bundle","task_id":"t1","skill_id":42}`)

	var task Task
	require.NoError(t, json.Unmarshal(raw, &task))
	task.original = raw

	decoded, err := TaskInto[PurgeBundleTask](&task)
	require.NoError(t, err)
	assert.Equal(t, "purge-bundle", decoded.Name)
	assert.Equal(t, "t1", decoded.ID)
	assert.Equal(t, int64(42), decoded.SkillID)
}
