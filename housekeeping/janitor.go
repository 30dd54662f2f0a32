package housekeeping

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/heyvito/go-leader/leader"
	"go.uber.org/zap"

	"github.com/skillforge/depot/redis"
	"github.com/skillforge/depot/storage"
)

// New creates the janitor responsible for dropping stored bundles after
// the catalog unpublishes or republishes a skill. A single instance leads
// the cluster at any time; followers idle until promoted.
func New(r redis.Client, provider storage.Provider) *Janitor {
	l, promote, demote, err := r.MakeLeader(leader.Opts{
		TTL:      5 * time.Second,
		Wait:     10 * time.Second,
		JitterMS: 500,
		Key:      "skillforge:depot:leader",
	})

	return &Janitor{
		log:            zap.L().With(zap.String("component", "janitor")),
		redis:          r,
		leader:         l,
		storage:        provider,
		promote:        promote,
		demote:         demote,
		err:            err,
		tasks:          make(chan *Task, 10),
		runningMu:      &sync.Mutex{},
		runningTasks:   &sync.WaitGroup{},
		currentTasksMu: &sync.Mutex{},
		currentTasks:   make(map[*Task]bool),
	}
}

type Janitor struct {
	redis     redis.Client
	log       *zap.Logger
	leader    leader.Leader
	promote   <-chan time.Time
	demote    <-chan time.Time
	err       <-chan error
	tasks     chan *Task
	leading   bool
	running   bool
	runningMu *sync.Mutex
	storage   storage.Provider

	runningTasks   *sync.WaitGroup
	currentTasksMu *sync.Mutex
	currentTasks   map[*Task]bool
}

func (j *Janitor) performTask(rawTask *Task) {
	defer func() {
		j.runningTasks.Done()
		j.currentTasksMu.Lock()
		defer j.currentTasksMu.Unlock()
		delete(j.currentTasks, rawTask)
	}()

	j.log.Info("Performing task", zap.String("id", rawTask.ID))
	switch rawTask.Name {
	case "purge-bundle":
		task, err := TaskInto[PurgeBundleTask](rawTask)
		if err != nil {
			j.log.Error(
				"Failed decoding task",
				zap.String("task_id", rawTask.ID),
				zap.String("name", rawTask.Name),
				zap.ByteString("data", rawTask.original),
				zap.Error(err),
			)
			return
		}
		j.runPurgeBundle(task)

	case "purge-all":
		task, err := TaskInto[PurgeAllTask](rawTask)
		if err != nil {
			j.log.Error(
				"Failed decoding task",
				zap.String("task_id", rawTask.ID),
				zap.String("name", rawTask.Name),
				zap.ByteString("data", rawTask.original),
				zap.Error(err),
			)
			return
		}
		j.runPurgeAll(task)

	default:
		j.log.Warn("Ignoring unknown task",
			zap.String("task_id", rawTask.ID),
			zap.String("name", rawTask.Name))
	}
}

func (j *Janitor) performTasks() {
	for rawTask := range j.tasks {
		j.currentTasksMu.Lock()
		j.currentTasks[rawTask] = true
		j.currentTasksMu.Unlock()
		j.performTask(rawTask)
	}
}

func (j *Janitor) runPurgeBundle(task *PurgeBundleTask) {
	log := j.log.With(zap.String("task_id", task.ID))
	log.Info("Starting task", zap.Int64("skill_id", task.SkillID))
	err := j.storage.DeleteBundle(task.SkillID)
	if err != nil {
		if _, ok := err.(storage.ErrNotExist); ok {
			log.Info("Bundle already absent", zap.Int64("skill_id", task.SkillID))
			return
		}
		log.Error("Failed removing bundle from storage", zap.Int64("skill_id", task.SkillID), zap.Error(err))
		return
	}
	log.Info("Completed")
}

func (j *Janitor) runPurgeAll(task *PurgeAllTask) {
	log := j.log.With(zap.String("task_id", task.ID))
	log.Info("Starting task")
	err := j.storage.PurgeAll()
	if err != nil {
		log.Error("Failed purging bundles", zap.Error(err))
		return
	}
	log.Info("Completed")
}

func (j *Janitor) collectTasks() {
	for j.leading {
		v, err := j.redis.NextHousekeepingTask()
		if err != nil {
			j.log.Error("Failed obtaining task from Redis", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
		if v == "" {
			continue
		}

		j.log.Info("Obtained task", zap.String("task", v))
		var t Task
		var rawTask = []byte(v)
		err = json.Unmarshal(rawTask, &t)
		if err != nil {
			j.log.Error("Failed unmarshalling base task", zap.Error(err), zap.String("data", v))
			continue
		}
		t.original = rawTask

		j.runningMu.Lock()
		if !j.running {
			j.log.Info("Obtained task during shutdown. Will requeue.")
			// The tasks channel is already closed at this point. Hand
			// the job to the next leader and stop collecting.
			if err = j.redis.RequeueHousekeepingTask(v); err != nil {
				j.log.Error("Failed requeueing task", zap.Error(err), zap.Any("task", t))
			}
			j.runningMu.Unlock()
			break
		}
		j.runningMu.Unlock()
		j.runningTasks.Add(1)
		j.tasks <- &t
	}
}

func (j *Janitor) Start() {
	j.leader.Start()
	j.running = true
	go j.performTasks()

	for {
		select {
		case <-j.promote:
			j.log.Info("Became leader")
			j.leading = true
			go j.collectTasks()

		case <-j.demote:
			j.log.Info("Stopped leading")
			j.leading = false
			j.runningMu.Lock()
			if !j.running {
				j.runningMu.Unlock()
				return
			}
			j.runningMu.Unlock()

		case err := <-j.err:
			j.log.Error("Leading mechanism reported error", zap.Error(err))
		}
	}
}

func (j *Janitor) Stop() {
	if !j.running {
		return
	}
	j.log.Info("Stopping...")
	j.runningMu.Lock()
	j.running = false
	j.runningMu.Unlock()

	resigned := false
	for i := 0; i < 10; i++ {
		if err := j.leader.Stop(); err != nil {
			j.log.Error("Failed resigning leadership. Retrying in one second.", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}
		resigned = true
		break
	}
	if !resigned {
		j.log.Warn("Failed to resign for 10 seconds. Attempting to forcibly interrupt task handling. Cluster may run without a leader until next election.")
		j.leading = false
	}

	j.currentTasksMu.Lock()
	var allTasks []*Task
	for t := range j.currentTasks {
		allTasks = append(allTasks, t)
	}
	j.currentTasksMu.Unlock()

	j.log.Info("Waiting for tasks to be finished...", zap.Any("tasks", allTasks))
	j.runningTasks.Wait()
	close(j.tasks)
}
