// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry and ring state reflector.

package control

import (
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/momentics/ringbuf/api"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Debug = (*DebugProbes)(nil)

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// RegisterRing adds a probe "ring.<name>" rendering src's stats.
func (dp *DebugProbes) RegisterRing(name string, src StatsSource) {
	dp.RegisterProbe("ring."+name, func() any {
		s := src.Stats()
		return map[string]any{
			"size":    humanize.IBytes(uint64(s.Size)),
			"items":   s.Len,
			"free":    s.Cap - s.Len,
			"full":    s.Len == s.Cap,
			"evicted": humanize.Comma(int64(s.Evicted)),
		}
	})
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
