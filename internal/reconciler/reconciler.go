package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/pkg/logger"
)

// staleResubmitter matches DispatchService.ResubmitStale and lets us unit
// test the reconciler with a small fake implementation.
type staleResubmitter interface {
	ResubmitStale(ctx context.Context, staleAfter time.Duration, limit int) (int, error)
}

// Reconciler periodically re-enqueues delivery records stuck in queued state,
// typically tasks a previous process lost before running them. It is opt-in:
// without it, a never-run task stays queued forever, which is the baseline
// at-most-one-attempt behavior.
type Reconciler struct {
	dispatcher staleResubmitter
	interval   time.Duration
	staleAfter time.Duration
	batchSize  int

	// Internal state
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	// Statistics
	lastRunAt        time.Time
	runsCount        int64
	resubmittedTotal int64
}

func New(dispatcher staleResubmitter, cfg environments.ReconcilerConfig) *Reconciler {
	return &Reconciler{
		dispatcher: dispatcher,
		interval:   cfg.Interval,
		staleAfter: cfg.StaleAfter,
		batchSize:  cfg.BatchSize,
	}
}

// StartWithParams overrides interval and staleness window before starting.
// Zero values keep the configured defaults.
func (r *Reconciler) StartWithParams(ctx context.Context, interval, staleAfter time.Duration) error {
	r.mu.Lock()
	if interval > 0 {
		r.interval = interval
	}
	if staleAfter > 0 {
		r.staleAfter = staleAfter
	}
	r.mu.Unlock()

	return r.Start(ctx)
}

func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.running {
		r.mu.Unlock()
		logger.Warnf("Reconciler is already running")
		return nil
	}

	r.running = true
	r.stopChan = make(chan struct{})
	r.doneChan = make(chan struct{})
	r.mu.Unlock()

	logger.Infof("Starting reconciler with interval %v (stale after %v)", r.interval, r.staleAfter)

	go r.run(ctx)

	return nil
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneChan)

	r.reconcile(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile(ctx)

		case <-r.stopChan:
			logger.Warnf("Reconciler received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Reconciler context cancelled")
			return
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	r.mu.Lock()
	r.lastRunAt = time.Now()
	r.runsCount++
	runNumber := r.runsCount
	staleAfter := r.staleAfter
	batchSize := r.batchSize
	r.mu.Unlock()

	resubmitted, err := r.dispatcher.ResubmitStale(ctx, staleAfter, batchSize)
	if err != nil {
		logger.Errorf("[Run #%d] Reconciliation failed: %v", runNumber, err)
		return
	}

	r.mu.Lock()
	r.resubmittedTotal += int64(resubmitted)
	r.mu.Unlock()

	if resubmitted > 0 {
		logger.Infof("[Run #%d] Resubmitted %d stale tasks", runNumber, resubmitted)
	} else {
		logger.Debugf("[Run #%d] No stale tasks found", runNumber)
	}
}

func (r *Reconciler) Stop() error {
	r.mu.Lock()

	if !r.running {
		r.mu.Unlock()
		logger.Warnf("Reconciler is not running")
		return nil
	}

	r.running = false
	stopChan := r.stopChan
	doneChan := r.doneChan
	r.mu.Unlock()

	close(stopChan)
	<-doneChan

	logger.Infof("Reconciler stopped")
	return nil
}

func (r *Reconciler) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *Reconciler) GetStatus() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := Status{
		Running:          r.running,
		LastRunAt:        r.lastRunAt,
		RunsCount:        r.runsCount,
		ResubmittedTotal: r.resubmittedTotal,
		Interval:         r.interval,
		StaleAfter:       r.staleAfter,
	}

	if r.running && !r.lastRunAt.IsZero() {
		status.NextRunAt = r.lastRunAt.Add(r.interval)
	}

	return status
}

type Status struct {
	Running          bool          `json:"running"`
	LastRunAt        time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt        time.Time     `json:"nextRunAt,omitempty"`
	RunsCount        int64         `json:"runsCount"`
	ResubmittedTotal int64         `json:"resubmittedTotal"`
	Interval         time.Duration `json:"interval"`
	StaleAfter       time.Duration `json:"staleAfter"`
}
