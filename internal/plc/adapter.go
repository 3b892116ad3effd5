package plc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/palletworks/palletpad/internal/model"
)

// Sentinel errors distinguishing refusal causes before any tag is sent.
var (
	// ErrNoSession means no successful login preceded the transfer; the
	// transport is never contacted.
	ErrNoSession = errors.New("no plc session")
	// ErrBusy means another transfer is already in flight on this adapter.
	ErrBusy = errors.New("transfer already in progress")
	// ErrSlotLimit means the box count exceeds the controller's fixed
	// array size; the protocol must not silently truncate.
	ErrSlotLimit = errors.New("box count exceeds plc slot limit")
)

// Status is the adapter's user-visible transfer state.
type Status int

const (
	StatusIdle Status = iota
	StatusReading
	StatusWriting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusReading:
		return "reading"
	case StatusWriting:
		return "writing"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// successHold is how long a finished transfer shows success before the
// status reverts to idle. Errors stay visible until the next attempt.
const successHold = 2 * time.Second

// Transport is the injected communication capability. Implementations own
// networking, sessions, and timeouts; the adapter only produces and
// consumes tag lists. All methods are safe to call from any goroutine.
type Transport interface {
	// Login establishes a session; subsequent calls reuse it implicitly.
	Login(ctx context.Context, address, username, password string) error
	// BulkWrite sends all tags in one call, atomic from the caller's view.
	BulkWrite(ctx context.Context, tags []TagValue) error
	// BulkRead resolves the requested tag paths to values.
	BulkRead(ctx context.Context, tags []string) ([]TagValue, error)
}

// Config holds the connection and mapping parameters for one adapter.
type Config struct {
	Address  string
	Username string
	Password string

	BaseTag  string // controller data block name, e.g. "PatternDB"
	MaxSlots int    // fixed size of the controller's box array

	// Optional scalar pattern parameters written alongside the boxes.
	// A zero LayerCount omits both layer tags.
	LayerCount  int
	LayerHeight float64
}

// Adapter drives pattern transfers against one controller. It enforces the
// single-in-flight rule shared by user-triggered transfers and background
// polling, and tracks the status shown in the UI.
type Adapter struct {
	transport Transport
	cfg       Config

	mu       sync.Mutex
	loggedIn bool
	busy     bool
	status   Status
	lastErr  error
	gen      int // invalidates stale success-revert timers

	onStatus func(Status)
}

// NewAdapter wires an adapter to a transport. Both the transport and the
// mapping config are required; missing collaborators are setup faults.
func NewAdapter(t Transport, cfg Config) (*Adapter, error) {
	if t == nil {
		return nil, errors.New("plc: transport is required")
	}
	if cfg.BaseTag == "" {
		return nil, errors.New("plc: base tag path is required")
	}
	if cfg.MaxSlots <= 0 {
		return nil, fmt.Errorf("plc: max slots must be positive, got %d", cfg.MaxSlots)
	}
	return &Adapter{transport: t, cfg: cfg, status: StatusIdle}, nil
}

// SetStatusHandler registers a callback fired on every status transition.
// The callback may run on a background goroutine; GUI hosts marshal it onto
// their event loop.
func (a *Adapter) SetStatusHandler(fn func(Status)) {
	a.mu.Lock()
	a.onStatus = fn
	a.mu.Unlock()
}

// Status returns the current transfer status.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// LastError returns the error behind a StatusError, if any.
func (a *Adapter) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// LoggedIn reports whether a session is available.
func (a *Adapter) LoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

// TagMap returns the tag naming convention this adapter writes under.
func (a *Adapter) TagMap() TagMap { return TagMap{Base: a.cfg.BaseTag} }

func (a *Adapter) setStatus(s Status, err error) {
	a.mu.Lock()
	a.status = s
	a.lastErr = err
	a.gen++
	gen := a.gen
	fn := a.onStatus
	a.mu.Unlock()

	if fn != nil {
		fn(s)
	}
	if s == StatusSuccess {
		time.AfterFunc(successHold, func() { a.revertSuccess(gen) })
	}
}

// revertSuccess drops a stale success back to idle unless a newer
// transition already replaced it.
func (a *Adapter) revertSuccess(gen int) {
	a.mu.Lock()
	if a.gen != gen || a.status != StatusSuccess {
		a.mu.Unlock()
		return
	}
	a.status = StatusIdle
	a.gen++
	fn := a.onStatus
	a.mu.Unlock()

	if fn != nil {
		fn(StatusIdle)
	}
}

// acquire claims the single in-flight slot, or refuses with ErrBusy.
func (a *Adapter) acquire() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return ErrBusy
	}
	if !a.loggedIn {
		return ErrNoSession
	}
	a.busy = true
	return nil
}

func (a *Adapter) release() {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
}

// Login establishes the transport session. It shares the in-flight guard
// so a login cannot race a transfer.
func (a *Adapter) Login(ctx context.Context) error {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return ErrBusy
	}
	a.busy = true
	a.mu.Unlock()
	defer a.release()

	if err := a.transport.Login(ctx, a.cfg.Address, a.cfg.Username, a.cfg.Password); err != nil {
		a.setStatus(StatusError, fmt.Errorf("login failed: %w", err))
		return fmt.Errorf("login failed: %w", err)
	}

	a.mu.Lock()
	a.loggedIn = true
	a.mu.Unlock()
	a.setStatus(StatusIdle, nil)
	return nil
}

// Write transfers the whole box list to the controller in one bulk call.
// Refused before any tag is sent when no session exists, when another
// transfer is in flight, or when the list exceeds the slot limit. The
// transport's single bulk call is the atomicity guarantee: a partial
// failure inside it surfaces as an overall failure here.
func (a *Adapter) Write(ctx context.Context, specs []model.BoxSpec) error {
	if len(specs) > a.cfg.MaxSlots {
		return fmt.Errorf("%w: %d boxes, %d slots", ErrSlotLimit, len(specs), a.cfg.MaxSlots)
	}
	if err := a.acquire(); err != nil {
		return err
	}
	defer a.release()

	a.setStatus(StatusWriting, nil)

	m := a.TagMap()
	tags := BuildWriteTags(m, specs)
	if a.cfg.LayerCount > 0 {
		tags = append(tags, BuildLayerTags(m, a.cfg.LayerCount, a.cfg.LayerHeight)...)
	}

	if err := a.transport.BulkWrite(ctx, tags); err != nil {
		err = fmt.Errorf("bulk write failed: %w", err)
		a.setStatus(StatusError, err)
		return err
	}
	a.setStatus(StatusSuccess, nil)
	return nil
}

// Read requests every slot 1..MaxSlots and reconstructs the meaningful
// boxes (positive width and depth), in slot order. The caller replaces its
// pattern only on a fully successful read.
func (a *Adapter) Read(ctx context.Context) ([]model.BoxSpec, error) {
	if err := a.acquire(); err != nil {
		return nil, err
	}
	defer a.release()

	a.setStatus(StatusReading, nil)

	m := a.TagMap()
	values, err := a.transport.BulkRead(ctx, SlotTags(m, a.cfg.MaxSlots))
	if err != nil {
		err = fmt.Errorf("bulk read failed: %w", err)
		a.setStatus(StatusError, err)
		return nil, err
	}

	specs := BoxesFromRead(m, values, a.cfg.MaxSlots)
	a.setStatus(StatusSuccess, nil)
	return specs, nil
}

// WriteAsync runs Write on its own goroutine and delivers the result to
// done (which may be nil). Refusals (busy, no session, slot limit) are
// still reported synchronously through done.
func (a *Adapter) WriteAsync(ctx context.Context, specs []model.BoxSpec, done func(error)) {
	go func() {
		err := a.Write(ctx, specs)
		if done != nil {
			done(err)
		}
	}()
}

// ReadAsync runs Read on its own goroutine and delivers the result to done.
func (a *Adapter) ReadAsync(ctx context.Context, done func([]model.BoxSpec, error)) {
	go func() {
		specs, err := a.Read(ctx)
		if done != nil {
			done(specs, err)
		}
	}()
}

// StartPolling issues a background Read every interval, delivering
// successful results to onBoxes. Polls that collide with a user-triggered
// transfer are skipped by the shared in-flight guard. The returned stop
// function is idempotent.
func (a *Adapter) StartPolling(interval time.Duration, onBoxes func([]model.BoxSpec)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				specs, err := a.Read(ctx)
				if errors.Is(err, ErrBusy) {
					continue // a user transfer owns the adapter right now
				}
				if err == nil && onBoxes != nil {
					onBoxes(specs)
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}
