package engine

import (
	"os/exec"
	"sync"

	"golang.org/x/sync/singleflight"
)

// readinessCache memoizes "is this uv-managed Python environment importable"
// probes, de-duplicated across concurrent callers with singleflight. Grounded
// on the teacher's adapters.CheckEnvironmentReady: the probe itself
// (`uv run --project <env> python -c <import>`) is cheap to run once but
// expensive to run per request, and two concurrent loads of the same
// environment should share one probe rather than racing two.
type readinessCache struct {
	mu    sync.RWMutex
	ready map[string]bool
	group singleflight.Group
}

func newReadinessCache() *readinessCache {
	return &readinessCache{ready: make(map[string]bool)}
}

func (c *readinessCache) check(uvPath, envPath, importStatement string) bool {
	key := envPath + ":" + importStatement

	c.mu.RLock()
	if ok, seen := c.ready[key]; seen {
		c.mu.RUnlock()
		return ok
	}
	c.mu.RUnlock()

	result, _, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		if ok, seen := c.ready[key]; seen {
			c.mu.RUnlock()
			return ok, nil
		}
		c.mu.RUnlock()

		cmd := exec.Command(uvPath, "run", "--project", envPath, "python", "-c", importStatement)
		ready := cmd.Run() == nil

		c.mu.Lock()
		c.ready[key] = ready
		c.mu.Unlock()
		return ready, nil
	})
	return result.(bool)
}
