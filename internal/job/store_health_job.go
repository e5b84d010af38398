package job

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/metrics"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthJob probes the history store and publishes the result as the
// imgvault_store_up gauge.
type StoreHealthJob struct {
	store   string
	target  Pinger
	timeout time.Duration
}

func NewStoreHealthJob(store string, target Pinger, timeout time.Duration) *StoreHealthJob {
	return &StoreHealthJob{store: store, target: target, timeout: timeout}
}

func (j *StoreHealthJob) Name() string {
	return "store_health"
}

func (j *StoreHealthJob) Run(ctx context.Context) error {
	if j.target == nil {
		return nil
	}
	timeout := j.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := j.target.Ping(ctx); err != nil {
		metrics.RecordStoreProbe(j.store, false)
		return fmt.Errorf("ping %s: %w", j.store, err)
	}
	metrics.RecordStoreProbe(j.store, true)
	logutil.GetLogger(ctx).Debug("store probe ok", zap.String("store", j.store))
	return nil
}
