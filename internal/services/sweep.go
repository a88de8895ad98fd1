package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/platform/objstore"
)

type SweepReport struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
	Removed int      `json:"removed"`
}

// SweepOrphans finds stored files that have no metadata row and are older
// than the grace period. Younger files may belong to an upload still in
// flight and are never touched.
func (s *assetService) SweepOrphans(ctx context.Context, dryRun bool) (*SweepReport, error) {
	report := &SweepReport{Orphans: []string{}}
	cutoff := s.now().Add(-s.grace)
	dbc := dbctx.New(ctx)

	err := s.store.Walk(ctx, func(obj objstore.Object) error {
		report.Scanned++
		if obj.ModTime.After(cutoff) {
			return nil
		}
		parts := strings.Split(obj.Key, "/")
		if len(parts) != 4 {
			return nil
		}
		row, err := s.assets.GetByLocation(dbc, parts[0], parts[1], parts[2], parts[3])
		if err != nil {
			return err
		}
		if row == nil {
			report.Orphans = append(report.Orphans, obj.Key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store: %w", err)
	}
	if dryRun {
		return report, nil
	}
	for _, key := range report.Orphans {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, objstore.ErrNotExist) {
			s.log.Warn("Orphan delete failed", "key", key, "error", err)
			continue
		}
		report.Removed++
	}
	s.log.Info("Orphan sweep finished", "scanned", report.Scanned, "orphans", len(report.Orphans), "removed", report.Removed)
	return report, nil
}

// OrphanSweeper runs SweepOrphans on a cron schedule.
type OrphanSweeper struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewOrphanSweeper(log *logger.Logger, assets AssetService, spec string) (*OrphanSweeper, error) {
	sweepLog := log.With("component", "OrphanSweeper")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		if _, err := assets.SweepOrphans(context.Background(), false); err != nil {
			sweepLog.Error("Orphan sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_CRON %q: %w", spec, err)
	}
	return &OrphanSweeper{cron: c, log: sweepLog}, nil
}

func (o *OrphanSweeper) Start() {
	o.log.Info("Orphan sweeper started")
	o.cron.Start()
}

// Stop waits for a running sweep to finish.
func (o *OrphanSweeper) Stop() {
	<-o.cron.Stop().Done()
}
