package sweeper

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/zawajapp/zawaj-backend/pkg/logger"
)

var (
	sweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_sweep_runs_total",
		Help: "Number of sweep task executions",
	}, []string{"task", "result"})

	sweptEntities = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_swept_entities_total",
		Help: "Number of entities expired by sweep tasks",
	}, []string{"task"})
)

// Task is a periodic expiry pass. It returns the number of entities it
// transitioned so the count can be exported.
type Task struct {
	Name     string
	Interval time.Duration
	Handler  func() (int, error)
	lastRun  time.Time
	nextRun  time.Time
	runCount int64
	lastErr  error
}

// Sweeper runs registered expiry passes in the background. Handlers are
// written as idempotent guarded updates, so an overlap with another
// instance running the same pass is harmless.
type Sweeper struct {
	tasks []*Task
	mu    sync.RWMutex
	log   zerolog.Logger
	stop  chan struct{}
	wg    sync.WaitGroup
}

// New creates a Sweeper with no registered tasks
func New() *Sweeper {
	return &Sweeper{
		tasks: make([]*Task, 0),
		log:   logger.Get().With().Str("component", "sweeper").Logger(),
		stop:  make(chan struct{}),
	}
}

// Register adds a periodic task
func (s *Sweeper) Register(name string, interval time.Duration, handler func() (int, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
		nextRun:  time.Now(),
	})

	s.log.Info().Str("task", name).Dur("interval", interval).Msg("sweep task registered")
}

// Start launches the background loop
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.tick(now)
			}
		}
	}()
	s.log.Info().Msg("sweeper started")
}

// Stop halts the loop and waits for an in-flight tick to finish
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.log.Info().Msg("sweeper stopped")
}

func (s *Sweeper) tick(now time.Time) {
	s.mu.RLock()
	tasks := make([]*Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.RUnlock()

	for _, task := range tasks {
		s.mu.RLock()
		due := !now.Before(task.nextRun)
		s.mu.RUnlock()
		if !due {
			continue
		}

		// Handlers run outside the lock; only the bookkeeping fields,
		// shared with Tasks(), are guarded.
		n, err := task.Handler()
		if err != nil {
			s.log.Error().Err(err).Str("task", task.Name).Msg("sweep task failed")
			sweepRuns.WithLabelValues(task.Name, "error").Inc()
		} else {
			sweepRuns.WithLabelValues(task.Name, "ok").Inc()
			if n > 0 {
				sweptEntities.WithLabelValues(task.Name).Add(float64(n))
				s.log.Info().Str("task", task.Name).Int("expired", n).Msg("sweep pass expired entities")
			}
		}

		s.mu.Lock()
		task.lastErr = err
		task.lastRun = now
		task.nextRun = now.Add(task.Interval)
		task.runCount++
		s.mu.Unlock()
	}
}

// Tasks returns a snapshot of registered tasks for monitoring
func (s *Sweeper) Tasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := TaskInfo{
			Name:     t.Name,
			Interval: t.Interval.String(),
			LastRun:  t.lastRun,
			NextRun:  t.nextRun,
			RunCount: t.runCount,
		}
		if t.lastErr != nil {
			msg := t.lastErr.Error()
			info.LastError = &msg
		}
		result = append(result, info)
	}
	return result
}

// TaskInfo is a serializable view of a registered task
type TaskInfo struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	RunCount  int64     `json:"run_count"`
	LastError *string   `json:"last_error,omitempty"`
}
