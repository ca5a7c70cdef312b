package manager

import (
	"fmt"
	"sync"
)

// tradingToggle tracks which registered algorithms are allowed to route
// signals to the broker. A paused algorithm keeps receiving data and keeps
// emitting signals (they are still notified and recorded), it just stops
// trading.
type tradingToggle struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

func newTradingToggle() *tradingToggle {
	return &tradingToggle{enabled: make(map[string]bool)}
}

func (t *tradingToggle) add(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled[name] = true
}

func (t *tradingToggle) set(name string, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.enabled[name]; !ok {
		return fmt.Errorf("unknown algorithm: %s", name)
	}
	t.enabled[name] = on
	return nil
}

func (t *tradingToggle) isEnabled(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled[name]
}

// Snapshot copies the current per-algorithm trading state.
func (t *tradingToggle) Snapshot() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := make(map[string]bool, len(t.enabled))
	for k, v := range t.enabled {
		cp[k] = v
	}
	return cp
}
