// File: facade/ring.go
// Unified facade layer for ringbuf.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring wires a ring.Buffer to its backing region, metrics collector and debug
// probes, all driven by a control.Config. Unlike ring.Buffer, every method is
// guarded by a mutex so one Ring may be shared across goroutines.

package facade

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/momentics/ringbuf/api"
	"github.com/momentics/ringbuf/control"
	"github.com/momentics/ringbuf/pool"
	"github.com/momentics/ringbuf/ring"
)

// Ring is a synchronised byte ring with managed backing memory.
type Ring struct {
	mu     sync.Mutex
	buf    *ring.Buffer
	region *pool.Region
	cfg    control.Config
	closed bool

	log       *zap.Logger
	collector *control.RingCollector
	probes    *control.DebugProbes
}

// Ensure compliance with api.ByteRing and api.GracefulShutdown.
var (
	_ api.ByteRing         = (*Ring)(nil)
	_ api.GracefulShutdown = (*Ring)(nil)
)

// New validates cfg, allocates its backing region and builds the ring.
// A nil cfg means control.DefaultConfig(); a nil logger disables logging.
// When mmap backing is unavailable the ring falls back to heap memory.
func New(cfg *control.Config, logger *zap.Logger) (*Ring, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "ring config")
	}

	r := &Ring{cfg: *cfg, log: logger.Named("ringbuf")}
	region, err := r.allocate(cfg)
	if err != nil {
		return nil, err
	}
	r.region = region
	r.buf = ring.NewWithStorage(region.Bytes())

	name := cfg.Metrics.Name
	if name == "" {
		name = "default"
	}
	if cfg.Metrics.Enabled {
		r.collector = control.NewRingCollector(cfg.Metrics.Namespace, name, r)
	}
	if cfg.Debug {
		r.probes = control.NewDebugProbes()
		r.probes.RegisterRing(name, r)
		control.RegisterPlatformProbes(r.probes)
	}

	r.log.Info("ring created",
		zap.Int("size", r.buf.Size()),
		zap.Int("capacity", r.buf.Cap()),
		zap.Stringer("region", region),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("debug", cfg.Debug),
	)
	return r, nil
}

// allocate obtains cfg's region, falling back to the heap if mapping is not
// supported on this platform.
func (r *Ring) allocate(cfg *control.Config) (*pool.Region, error) {
	region, err := pool.Allocate(cfg.Backing, cfg.Capacity)
	if err == nil {
		return region, nil
	}
	if cfg.Backing == pool.BackingMmap && errors.Is(err, api.ErrNotSupported) {
		r.log.Warn("mmap backing unavailable, falling back to heap",
			zap.Int("capacity", cfg.Capacity), zap.Error(err))
		region, err = pool.NewHeapRegion(cfg.Capacity)
	}
	if err != nil {
		return nil, errors.Wrap(err, "allocate ring region")
	}
	return region, nil
}

// Reconfigure re-initialises the ring over a freshly allocated region sized
// by cfg. Buffered bytes are discarded and the eviction counter restarts.
// Metrics and debug settings are fixed at New.
func (r *Ring) Reconfigure(cfg control.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "ring config")
	}
	region, err := r.allocate(&cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = region.Release()
		return errors.Wrap(api.ErrRegionReleased, "reconfigure closed ring")
	}
	dropped := r.buf.Len()
	old := r.region
	r.buf.Init(region.Bytes())
	r.region = region
	r.cfg.Capacity = cfg.Capacity
	r.cfg.Backing = cfg.Backing
	desc, oldDesc := region.String(), old.String()
	r.mu.Unlock()

	if err := old.Release(); err != nil {
		r.log.Error("release previous region", zap.String("region", oldDesc), zap.Error(err))
	}
	r.log.Info("ring reconfigured",
		zap.Int("size", cfg.Capacity),
		zap.String("region", desc),
		zap.Int("dropped", dropped),
	)
	return nil
}

// Bind subscribes r to store so every accepted update reconfigures it.
func (r *Ring) Bind(store *control.ConfigStore) {
	store.OnReload(func(cfg control.Config) {
		if err := r.Reconfigure(cfg); err != nil {
			r.log.Error("reconfigure from store", zap.Error(err))
		}
	})
}

// Config returns the active configuration.
func (r *Ring) Config() control.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Collector returns the Prometheus collector, or nil when metrics are disabled.
func (r *Ring) Collector() *control.RingCollector {
	return r.collector
}

// DumpState returns the debug probe output, or nil when debug is disabled.
func (r *Ring) DumpState() map[string]any {
	if r.probes == nil {
		return nil
	}
	return r.probes.DumpState()
}

// Close releases the backing region. Afterwards the ring behaves as an
// empty size-1 ring: pushes are dropped and pops report no value.
func (r *Ring) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return api.ErrRegionReleased
	}
	r.closed = true
	evicted := r.buf.Evicted()
	r.buf = ring.New(1)
	region := r.region
	r.region = nil
	r.mu.Unlock()

	r.log.Info("ring closed", zap.Uint64("evicted", evicted))
	return region.Release()
}

// Shutdown implements api.GracefulShutdown by delegating to Close().
func (r *Ring) Shutdown() error {
	return r.Close()
}

// Push appends c, evicting the oldest byte when full.
func (r *Ring) Push(c byte) {
	r.mu.Lock()
	r.buf.Push(c)
	r.mu.Unlock()
}

// PushBulk appends p under a single lock acquisition.
func (r *Ring) PushBulk(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.PushBulk(p)
}

// Pop removes the oldest byte.
func (r *Ring) Pop() (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Pop()
}

// PopBulk drains up to len(dst) bytes under a single lock acquisition.
func (r *Ring) PopBulk(dst []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.PopBulk(dst)
}

// Peek returns the index-th oldest byte without removing it.
func (r *Ring) Peek(index int) (byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Peek(index)
}

// IsEmpty reports whether no bytes are readable.
func (r *Ring) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.IsEmpty()
}

// IsFull reports whether the next Push will evict.
func (r *Ring) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.IsFull()
}

// Len returns the number of readable bytes.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}

// Cap returns the usable capacity, Size()-1.
func (r *Ring) Cap() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Cap()
}

// Size returns the backing storage length.
func (r *Ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Size()
}

// Stats returns a consistent snapshot; safe to call from a metrics scrape.
func (r *Ring) Stats() api.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Stats()
}

// Write implements io.Writer.
func (r *Ring) Write(p []byte) (int, error) {
	return r.PushBulk(p), nil
}

// Read implements io.Reader with ring.Buffer's io.EOF-on-empty behaviour.
func (r *Ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Read(p)
}
