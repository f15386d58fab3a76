package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultExpiryInterval = time.Hour

// PrescriptionExpiryWorker periodically flips active prescriptions whose
// validity window has closed to expired.
type PrescriptionExpiryWorker struct {
	db       *gorm.DB
	log      *logrus.Logger
	repo     repository.PrescriptionRepository
	metrics  *metrics.Collector
	interval time.Duration
	now      func() time.Time

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewPrescriptionExpiryWorker(db *gorm.DB, log *logrus.Logger, repo repository.PrescriptionRepository, collector *metrics.Collector, interval time.Duration) *PrescriptionExpiryWorker {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	return &PrescriptionExpiryWorker{
		db:       db,
		log:      log,
		repo:     repo,
		metrics:  collector,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop() during graceful shutdown.
func (w *PrescriptionExpiryWorker) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	w.wg.Add(1)
	go w.loop()
}

// Stop gracefully shuts down the worker.
// Safe to call multiple times.
func (w *PrescriptionExpiryWorker) Stop() {
	if w.stopped.CompareAndSwap(false, true) {
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("PrescriptionExpiryWorker stopped")
	}
}

// RunOnce expires everything due at the current time and returns the count.
func (w *PrescriptionExpiryWorker) RunOnce(ctx context.Context) (int64, error) {
	expired, err := w.repo.ExpireDue(w.db.WithContext(ctx), w.now().UTC())
	if err != nil {
		w.log.Warnf("Failed to expire prescriptions: %+v", err)
		return 0, err
	}
	w.metrics.RecordPrescriptionsExpired(expired)
	if expired > 0 {
		w.log.Infof("Expired %d prescriptions", expired)
	}
	return expired, nil
}

func (w *PrescriptionExpiryWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Catch up on anything that lapsed while the service was down.
	w.tick()

	for {
		select {
		case <-w.stopChan:
			w.log.Debug("Prescription expiry loop stopping")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *PrescriptionExpiryWorker) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	w.RunOnce(ctx)
}
