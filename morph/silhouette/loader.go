package silhouette

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/google/uuid"
)

// PointSet is the outcome of one extraction request.
type PointSet struct {
	Token   uint64
	ID      string
	Points  []float32
	Err     error
	Elapsed time.Duration
}

// OK reports whether the set came from a successful analysis and may be
// installed into a layer.
func (p PointSet) OK() bool {
	return p.Err == nil && len(p.Points) > 0
}

// Cell is a single-slot holder for the newest extraction result. Tokens are
// issued in increasing order and only a completion carrying the most recently
// issued token is kept, so a slow early request can never overwrite a later one.
type Cell struct {
	mu     sync.Mutex
	issued uint64
	seen   uint64
	latest *PointSet
}

func (c *Cell) Issue() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Offer stores ps if its token is current and reports whether it was kept.
func (c *Cell) Offer(ps PointSet) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ps.Token != c.issued {
		return false
	}
	c.latest = &ps
	return true
}

// Poll returns the stored result once; later calls report false until a
// newer result arrives.
func (c *Cell) Poll() (PointSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil || c.latest.Token == c.seen {
		return PointSet{}, false
	}
	c.seen = c.latest.Token
	return *c.latest, true
}

func (c *Cell) Latest() (PointSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return PointSet{}, false
	}
	return *c.latest, true
}

// Loader runs extractions in the background and publishes them through a Cell.
// In-flight work is not cancelled when a newer request is submitted; its
// result is simply dropped on arrival.
type Loader struct {
	extractor   *Extractor
	targetCount int
	log         Logger

	cell   Cell
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	draws  atomic.Int64
}

func NewLoader(ctx context.Context, ex *Extractor, targetCount int, seed int64) *Loader {
	ctx, cancel := context.WithCancel(ctx)
	l := &Loader{
		extractor:   ex,
		targetCount: targetCount,
		log:         ex.Log,
		ctx:         ctx,
		cancel:      cancel,
	}
	if ex.NewRand == nil {
		ex.NewRand = func() core.Rand {
			return core.NewRand(core.DeriveSeed(seed, int(l.draws.Add(1))))
		}
	}
	return l
}

func (l *Loader) TargetCount() int {
	return l.targetCount
}

// Submit starts decoding and analysing data and returns its token.
func (l *Loader) Submit(data []byte) uint64 {
	buf := append([]byte(nil), data...)
	return l.start(func(ctx context.Context) ([]float32, error) {
		return l.extractor.Extract(ctx, buf, l.targetCount)
	})
}

// SubmitImage is Submit for an image that needs no decoding.
func (l *Loader) SubmitImage(img image.Image) uint64 {
	return l.start(func(ctx context.Context) ([]float32, error) {
		return l.extractor.ExtractImage(ctx, img, l.targetCount)
	})
}

func (l *Loader) start(run func(ctx context.Context) ([]float32, error)) uint64 {
	token := l.cell.Issue()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		start := time.Now()
		points, err := run(l.ctx)
		ps := PointSet{
			Token:   token,
			ID:      uuid.NewString(),
			Points:  points,
			Err:     err,
			Elapsed: time.Since(start),
		}
		if !l.cell.Offer(ps) && l.log != nil {
			l.log.Debugf("dropping stale point set %s (token %d)", ps.ID, token)
		}
	}()
	return token
}

// Poll hands out the newest completed result once.
func (l *Loader) Poll() (PointSet, bool) {
	return l.cell.Poll()
}

// Wait blocks until every submitted extraction has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels outstanding work and waits for it to stop.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}
