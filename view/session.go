package view

import (
	"context"
	"sync"
	"time"

	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FrameSink receives rendered frames on the session goroutine. It must not
// block.
type FrameSink func(*Frame)

// tickMsg is sent by the scheduler of one generation
type tickMsg struct {
	gen uint64
}

// Session runs one Controller on a single goroutine. Events submitted from
// any goroutine and scheduler ticks are applied strictly one at a time.
type Session struct {
	ID string

	ctrl    *Controller
	sink    FrameSink
	limiter *rate.Limiter

	inbox chan func(*Controller)
	ticks chan tickMsg

	// scheduler state, owned by the loop goroutine
	schedGen    uint64
	stopSched   context.CancelFunc
	flushQueued bool
	interval    time.Duration

	subsMu sync.Mutex
	subs   []func()

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	verbosity int
	logger    *zap.SugaredLogger
}

// NewSession starts the session loop for ctrl. Frames go to sink.
func NewSession(id string, ctrl *Controller, sink FrameSink, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if sink == nil {
		sink = func(*Frame) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        id,
		ctrl:      ctrl,
		sink:      sink,
		limiter:   rate.NewLimiter(frameLimit(ctrl.opts), 1),
		inbox:     make(chan func(*Controller), 64),
		ticks:     make(chan tickMsg, 1),
		interval:  ctrl.opts.TickInterval,
		ctx:       ctx,
		cancel:    cancel,
		verbosity: ctrl.opts.Verbosity,
		logger:    log.Named("view.session").With(logger.FieldSessionID, id),
	}

	s.wg.Add(1)
	go s.loop()
	return s
}

// Submit queues fn to run on the session goroutine. It returns false once
// the session is closed.
func (s *Session) Submit(fn func(*Controller)) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.inbox <- fn:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Do runs fn on the session goroutine and waits for it
func (s *Session) Do(ctx context.Context, fn func(*Controller)) error {
	done := make(chan struct{})
	if !s.Submit(func(c *Controller) {
		defer close(done)
		fn(c)
	}) {
		return errors.ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return errors.ErrClosed
	}
}

// Load replaces the session's graph
func (s *Session) Load(g *graph.Graph) bool {
	return s.Submit(func(c *Controller) { c.SetData(g) })
}

// Apply swaps in new options, e.g. after a config reload. The tick
// interval and frame rate change with them.
func (s *Session) Apply(opts Options) bool {
	return s.Submit(func(c *Controller) {
		c.SetOptions(opts)
		s.interval = c.opts.TickInterval
		s.verbosity = c.opts.Verbosity
		s.limiter.SetLimit(frameLimit(c.opts))
		// afterEvent restarts it at the new interval
		s.stopScheduler()
	})
}

func frameLimit(opts Options) rate.Limit {
	if opts.FrameRate > 0 {
		return rate.Limit(opts.FrameRate)
	}
	return rate.Inf
}

// AddSubscription registers a release func run on Close. If the session is
// already closed it runs immediately.
func (s *Session) AddSubscription(release func()) {
	s.subsMu.Lock()
	select {
	case <-s.ctx.Done():
		s.subsMu.Unlock()
		release()
		return
	default:
	}
	s.subs = append(s.subs, release)
	s.subsMu.Unlock()
}

// Close stops the scheduler and the loop and releases every subscription.
// Further calls and operations are no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.subsMu.Lock()
		s.cancel()
		subs := s.subs
		s.subs = nil
		s.subsMu.Unlock()

		s.wg.Wait()
		for _, release := range subs {
			release()
		}
		s.logger.Debugw("Session closed", "subscriptions", len(subs))
	})
}

// Done is closed when the session closes
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) loop() {
	defer s.wg.Done()
	defer s.stopScheduler()

	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.inbox:
			s.run(fn)
		case msg := <-s.ticks:
			s.tick(msg)
		}
	}
}

func (s *Session) run(fn func(*Controller)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("Session event panicked", "panic", r)
		}
	}()
	fn(s.ctrl)
	s.afterEvent()
}

// afterEvent emits the changed picture and keeps a scheduler running for
// the current generation while the controller is active
func (s *Session) afterEvent() {
	if s.ctrl.Active() {
		s.ensureScheduler()
	} else {
		s.stopScheduler()
	}
	s.emit(false)
}

func (s *Session) tick(msg tickMsg) {
	if s.stopSched == nil || msg.gen != s.ctrl.Generation() || msg.gen != s.schedGen {
		if logger.ShouldOutput(s.verbosity, logger.OutputLayoutTicks) {
			s.logger.Debugw("Ignoring stale tick", logger.FieldGeneration, msg.gen)
		}
		return
	}
	if s.ctrl.Tick() {
		s.emit(false)
		return
	}
	s.stopScheduler()
	s.emit(true)
	s.logger.Debugw("Layout idle",
		logger.FieldGeneration, msg.gen,
		logger.FieldTicks, s.ctrl.Simulation().Ticks())
}

// emit sends a frame unless the limiter says no. force always sends; it is
// used for the last frame before going idle. A throttled frame while idle
// is retried once the limiter allows.
func (s *Session) emit(force bool) {
	if !force && !s.limiter.Allow() {
		if s.stopSched == nil {
			s.queueFlush()
		}
		return
	}
	if force {
		s.limiter.Allow()
	}
	frame := s.ctrl.Frame()
	if logger.ShouldOutput(s.verbosity, logger.OutputFrames) {
		s.logger.Debugw("Frame", logger.FieldGeneration, frame.Generation, logger.FieldNodes, len(frame.Nodes), logger.FieldAlpha, frame.Alpha)
	}
	s.sink(frame)
}

func (s *Session) queueFlush() {
	if s.flushQueued {
		return
	}
	s.flushQueued = true
	delay := time.Duration(float64(time.Second) / float64(s.limiter.Limit()))
	time.AfterFunc(delay, func() {
		s.Submit(func(*Controller) { s.flushQueued = false })
	})
}

func (s *Session) ensureScheduler() {
	gen := s.ctrl.Generation()
	if s.stopSched != nil && s.schedGen == gen {
		return
	}
	s.stopScheduler()

	ctx, cancel := context.WithCancel(s.ctx)
	s.schedGen = gen
	s.stopSched = cancel
	interval := s.interval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case s.ticks <- tickMsg{gen: gen}:
				case <-ctx.Done():
					return
				default:
					// previous tick not consumed yet
				}
			}
		}
	}()
}

func (s *Session) stopScheduler() {
	if s.stopSched != nil {
		s.stopSched()
		s.stopSched = nil
	}
}
