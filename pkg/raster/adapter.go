package raster

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/brothertop/svgdiff/pkg/cache"
	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/observability"
)

const (
	// DefaultSettleDelay is how long the adapter waits before capture so
	// asynchronous font loading can complete. Deterministic backends and
	// test fixtures configure this down to zero.
	DefaultSettleDelay = 8 * time.Second

	// DefaultTimeout bounds a single rasterization call, settle delay
	// included.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL is how long cached raster buffers stay valid.
	DefaultCacheTTL = 24 * time.Hour
)

// AdapterOptions configures an Adapter.
type AdapterOptions struct {
	// SettleDelay overrides DefaultSettleDelay. Negative means zero.
	SettleDelay *time.Duration

	// Timeout overrides DefaultTimeout.
	Timeout time.Duration

	// Cache stores rendered buffers keyed by document hash and
	// dimensions. Nil disables caching.
	Cache cache.Cache

	// Logger receives render timing diagnostics. Defaults to a
	// discarding logger.
	Logger *log.Logger
}

// Adapter wraps a Renderer with settle delay, timeout, and caching.
type Adapter struct {
	backend Renderer
	settle  time.Duration
	timeout time.Duration
	cache   cache.Cache
	logger  *log.Logger
}

// NewAdapter creates an Adapter around backend.
func NewAdapter(backend Renderer, opts AdapterOptions) *Adapter {
	settle := DefaultSettleDelay
	if opts.SettleDelay != nil {
		settle = max(*opts.SettleDelay, 0)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Adapter{
		backend: backend,
		settle:  settle,
		timeout: timeout,
		cache:   opts.Cache,
		logger:  logger,
	}
}

// cachedRaster is the serialized form of an RGBA buffer in the cache.
type cachedRaster struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pix"`
}

// Render rasterizes one document at the planned dimensions. A backend that
// does not produce a capture within the timeout fails with TIMEOUT; other
// backend failures surface as RASTERIZATION_FAILED. Rendered buffers are
// exclusively owned by the caller.
func (a *Adapter) Render(ctx context.Context, svg string, width, height int, fit Fit) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodePlan, "render dimensions must be positive, got %dx%d", width, height)
	}

	key := cache.RasterKey(svg, width, height, int(fit))
	if a.cache != nil {
		if img, ok := a.lookup(ctx, key, width, height); ok {
			a.logger.Debug("raster cache hit", "width", width, "height", height)
			observability.Cache().OnCacheHit(ctx, "raster")
			return img, nil
		}
		observability.Cache().OnCacheMiss(ctx, "raster")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// Font-settle delay before capture.
	if a.settle > 0 {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "rasterization timed out during settle delay")
		case <-time.After(a.settle):
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, width, height)
	img, err := a.backend.Rasterize(ctx, svg, width, height, fit)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "rasterization did not complete within %s", a.timeout)
		} else {
			err = errors.Wrap(errors.ErrCodeRasterization, err, "rasterize %dx%d", width, height)
		}
		observability.Pipeline().OnRenderComplete(ctx, width, height, time.Since(start), err)
		return nil, err
	}
	if img == nil {
		err = errors.New(errors.ErrCodeRasterization, "backend produced no capture")
		observability.Pipeline().OnRenderComplete(ctx, width, height, time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnRenderComplete(ctx, width, height, time.Since(start), nil)
	a.logger.Debug("rasterized document", "width", width, "height", height, "duration", time.Since(start))

	if a.cache != nil {
		a.store(ctx, key, img)
	}
	return img, nil
}

// lookup decodes a cached raster buffer, verifying the stored dimensions.
func (a *Adapter) lookup(ctx context.Context, key string, width, height int) (*image.RGBA, bool) {
	data, ok, err := a.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var entry cachedRaster
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Width != width || entry.Height != height {
		return nil, false
	}
	img := image.NewRGBA(image.Rect(0, 0, entry.Width, entry.Height))
	if len(entry.Pix) != len(img.Pix) {
		return nil, false
	}
	copy(img.Pix, entry.Pix)
	return img, true
}

// store writes a rendered buffer to the cache. Failures are logged, never
// propagated: caching is an optimization.
func (a *Adapter) store(ctx context.Context, key string, img *image.RGBA) {
	b := img.Bounds()
	entry := cachedRaster{Width: b.Dx(), Height: b.Dy(), Pix: bytes.Clone(img.Pix)}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
		a.logger.Debug("raster cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "raster", len(data))
}
