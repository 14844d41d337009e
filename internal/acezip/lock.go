package acezip

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// acquireLock takes the writer lock for archive, polling until LockTimeout.
func (p *Packager) acquireLock(ctx context.Context, archive string) (func(), error) {
	lockPath, err := archiveLockPath(archive)
	if err != nil {
		return func() {}, err
	}
	l := flock.New(lockPath)
	deadline := time.Now().Add(p.opts.LockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("failed to acquire archive lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w: %s (lock: %s)", ErrLocked, archive, lockPath)
		}
		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// archiveLockPath names a lock file in the temp directory unique to the archive's absolute path.
func archiveLockPath(archive string) (string, error) {
	abs, err := filepath.Abs(archive)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive path: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "acekit-"+hex.EncodeToString(sum[:8])+".lock"), nil
}
