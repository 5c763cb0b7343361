// Package journal persists decisions and harness outcomes to SQLite for
// after-the-fact review.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/policy"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

const defaultBatchSize = 256

// Journal buffers rows and writes them in batches. A nil *Journal is a
// valid no-op journal.
type Journal struct {
	db        *gorm.DB
	run       Run
	batchSize int

	decisions []DecisionRow
	outcomes  []OutcomeRow
}

// Open creates or opens the database at path, migrates it and starts a new
// run. An empty path disables the journal and returns nil.
func Open(ctx context.Context, path string, seed int64, tickRate int) (*Journal, error) {
	if path == "" {
		return nil, nil
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        defaultBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	j := &Journal{
		db:        db,
		batchSize: defaultBatchSize,
		run:       Run{StartedAt: time.Now().UTC(), Seed: seed, TickRate: tickRate},
	}
	if err := db.WithContext(ctx).Create(&j.run).Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("creating run: %w", err)
	}
	return j, nil
}

// RunID returns the id of the current run.
func (j *Journal) RunID() uint {
	if j == nil {
		return 0
	}
	return j.run.ID
}

// RecordDecision buffers a decision and flushes when the batch is full.
func (j *Journal) RecordDecision(ctx context.Context, tick int32, snap *components.Snapshot, d policy.Decision) error {
	if j == nil {
		return nil
	}

	row := DecisionRow{
		RunID:      j.run.ID,
		Tick:       tick,
		Time:       snap.Time,
		Kind:       d.Kind.String(),
		Candidates: d.Candidates,
		Boost:      snap.Me.Boost,
		BallX:      snap.Ball.Location.X,
		BallY:      snap.Ball.Location.Y,
		BallZ:      snap.Ball.Location.Z,
		PadIndex:   -1,
	}
	switch d.Kind {
	case policy.KindShoot:
		row.Class = d.Shot.Class.String()
		row.Score = d.Score
		target := d.Shot.Target
		if loc, ok := d.Shot.Location(); ok {
			target = loc
		}
		row.TargetX, row.TargetY, row.TargetZ = target.X, target.Y, target.Z
	case policy.KindGoToBoost:
		row.PadIndex = d.Pad.Index
		row.TargetX, row.TargetY, row.TargetZ = d.Pad.Location.X, d.Pad.Location.Y, d.Pad.Location.Z
	case policy.KindGoToDefensive, policy.KindGoToOffensive:
		row.TargetX, row.TargetY, row.TargetZ = d.Target.X, d.Target.Y, d.Target.Z
		row.Tap = d.Tap
	}

	j.decisions = append(j.decisions, row)
	if len(j.decisions) >= j.batchSize {
		return j.Flush(ctx)
	}
	return nil
}

// RecordOutcome buffers a harness outcome.
func (j *Journal) RecordOutcome(ctx context.Context, tick int32, simTime float64, kind string) error {
	if j == nil {
		return nil
	}
	j.outcomes = append(j.outcomes, OutcomeRow{RunID: j.run.ID, Tick: tick, Time: simTime, Kind: kind})
	if len(j.outcomes) >= j.batchSize {
		return j.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered rows.
func (j *Journal) Flush(ctx context.Context) error {
	if j == nil {
		return nil
	}
	db := j.db.WithContext(ctx)
	if len(j.decisions) > 0 {
		if err := db.CreateInBatches(j.decisions, j.batchSize).Error; err != nil {
			return fmt.Errorf("writing decisions: %w", err)
		}
		j.decisions = j.decisions[:0]
	}
	if len(j.outcomes) > 0 {
		if err := db.CreateInBatches(j.outcomes, j.batchSize).Error; err != nil {
			return fmt.Errorf("writing outcomes: %w", err)
		}
		j.outcomes = j.outcomes[:0]
	}
	return nil
}

// KindCount is one row of a decision mix summary.
type KindCount struct {
	Kind  string
	Count int64
}

// DecisionMix counts flushed decisions of the current run by kind.
func (j *Journal) DecisionMix(ctx context.Context) ([]KindCount, error) {
	if j == nil {
		return nil, nil
	}
	var mix []KindCount
	err := j.db.WithContext(ctx).Model(&DecisionRow{}).
		Select("kind, count(*) as count").
		Where("run_id = ?", j.run.ID).
		Group("kind").
		Order("kind").
		Scan(&mix).Error
	if err != nil {
		return nil, fmt.Errorf("querying decision mix: %w", err)
	}
	return mix, nil
}

// Recent returns up to limit flushed decisions of the current run, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]DecisionRow, error) {
	if j == nil {
		return nil, nil
	}
	var rows []DecisionRow
	err := j.db.WithContext(ctx).
		Where("run_id = ?", j.run.ID).
		Order("tick desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying recent decisions: %w", err)
	}
	return rows, nil
}

// Close flushes pending rows, stamps the run end and closes the database.
func (j *Journal) Close(ctx context.Context, ticks int32) error {
	if j == nil {
		return nil
	}

	flushErr := j.Flush(ctx)

	ended := time.Now().UTC()
	updateErr := j.db.WithContext(ctx).Model(&j.run).
		Updates(map[string]any{"ended_at": ended, "ticks": ticks}).Error
	if updateErr == nil {
		j.run.EndedAt, j.run.Ticks = &ended, ticks
	}

	var closeErr error
	if sqlDB, err := j.db.DB(); err != nil {
		closeErr = err
	} else {
		closeErr = sqlDB.Close()
	}
	return errors.Join(flushErr, updateErr, closeErr)
}
