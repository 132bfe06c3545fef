package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/aretw0/vantage/pkg/adapters/redis"
)

// RecordLockKey guards scene imports into one recording.
const RecordLockKey = "record"

// Record replays a scene into the Redis recording. Concurrent imports into
// the same prefix are serialized with a distributed lock.
func (e *Env) Record(ctx context.Context, scene *file.Scene) error {
	if e.Store == nil {
		return fmt.Errorf("%w: record needs a redis address", ErrNoSource)
	}

	locker := redis.NewLocker(e.Store.Client(), e.Config.Redis.Prefix)
	lockCtx, cancel := context.WithTimeout(ctx, e.Config.Redis.LockTimeout)
	defer cancel()

	unlock, err := locker.Lock(lockCtx, RecordLockKey, e.Config.Redis.LockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			e.Logger.Warn("Failed to release record lock", "error", err)
		}
	}()

	if err := scene.ReplayInto(ctx, e.Store); err != nil {
		return err
	}
	e.Logger.Info("Scene recorded", "entries", len(scene.Entries), "prefix", e.Config.Redis.Prefix)
	return nil
}
