package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leoclee/wifilight/internal/effects"
	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/influxdb"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

const (
	// commandQueueSize bounds buffered commands. Transports drop
	// commands rather than block when the loop falls behind.
	commandQueueSize = 16

	// telemetryInterval is how often the render rate is reported.
	telemetryInterval = 10 * time.Second

	// renderErrorSample keeps a failing device from flooding the log at
	// frame rate; the first failure and every Nth after it are logged.
	renderErrorSample = 500
)

// command carries a decoded update into the loop. The reply channel is
// optional; ApplyWait uses it to hand the change set back.
type command struct {
	update light.Update
	reply  chan light.ChangeSet
}

// Options holds the engine's collaborators and configuration.
type Options struct {
	// Config is the loaded application configuration.
	Config *config.Config

	// Initial is the state to start from, either the persisted snapshot
	// or configured defaults.
	Initial light.State

	// Device is the strip to render to.
	Device strip.Device

	// Logger is the structured logger.
	Logger *logging.Logger

	// DeviceID is the stable identity used in telemetry.
	DeviceID string

	// Repository is optional snapshot storage. If nil, the engine runs
	// purely in memory.
	Repository light.Repository

	// Telemetry is an optional InfluxDB client for state and render
	// rate metrics. If nil, no metrics are written.
	Telemetry *influxdb.Client
}

// Engine owns the canonical lighting state and the render loop.
type Engine struct {
	cfg      *config.Config
	log      *logging.Logger
	deviceID string

	store    *light.Store
	fade     *light.Fade
	renderer *effects.Renderer
	device   strip.Device
	buf      strip.Buffer
	gate     persistGate

	telemetry  *influxdb.Client
	frames     int
	lastReport time.Time

	commands  chan command
	notifiers []Notifier

	renderErrs int

	// snapshot serves reads without touching loop-owned state.
	mu       sync.RWMutex
	snapshot light.State
}

// New creates an engine ready to Run.
//
// Returns:
//   - *Engine: the engine
//   - error: when a required collaborator is missing
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Device == nil {
		return nil, fmt.Errorf("strip device is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	store := light.NewStore(opts.Initial)
	initial := store.Current()

	e := &Engine{
		cfg:      opts.Config,
		log:      opts.Logger,
		deviceID: opts.DeviceID,
		store:    store,
		fade:     light.NewFade(initial.Color.Device(), opts.Config.FadeDuration()),
		renderer: effects.NewRenderer(opts.Config.Strip.Leds),
		device:   opts.Device,
		buf:      strip.NewBuffer(opts.Config.Strip.Leds),
		gate: persistGate{
			repo:  opts.Repository,
			quiet: opts.Config.SaveDelay(),
		},
		telemetry: opts.Telemetry,
		commands:  make(chan command, commandQueueSize),
		snapshot:  initial,
	}
	e.gate.seed(initial.Color)
	e.renderer.SetEffect(initial.Effect)
	return e, nil
}

// AddNotifier registers a change listener. Must be called before Run.
func (e *Engine) AddNotifier(n Notifier) {
	e.notifiers = append(e.notifiers, n)
}

// Snapshot returns the current state without blocking the loop.
func (e *Engine) Snapshot() light.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Effects returns the wire names of the available effects.
func (e *Engine) Effects() []string {
	return light.EffectNames()
}

// Apply queues an update without waiting for it. When the queue is
// full the update is dropped and logged; transports never block on the
// loop.
func (e *Engine) Apply(u light.Update) {
	if u.IsZero() {
		return
	}
	select {
	case e.commands <- command{update: u}:
	default:
		e.log.Warn("command queue full, dropping update")
	}
}

// ApplyWait queues an update and waits for the loop to merge it.
//
// Returns:
//   - light.ChangeSet: which state fields changed
//   - error: the context error if the engine stopped first
func (e *Engine) ApplyWait(ctx context.Context, u light.Update) (light.ChangeSet, error) {
	reply := make(chan light.ChangeSet, 1)
	select {
	case e.commands <- command{update: u, reply: reply}:
	case <-ctx.Done():
		return light.ChangeSet{}, ctx.Err()
	}

	select {
	case ch := <-reply:
		return ch, nil
	case <-ctx.Done():
		return light.ChangeSet{}, ctx.Err()
	}
}

// Run drives the loop until the context is cancelled. It renders a
// frame every configured interval and merges commands between frames.
// A pending debounced colour change is flushed on the way out.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("engine started",
		"leds", e.cfg.Strip.Leds,
		"frame_interval", e.cfg.FrameInterval(),
		"fade", e.cfg.FadeDuration(),
		"save_delay", e.cfg.SaveDelay(),
	)

	ticker := time.NewTicker(e.cfg.FrameInterval())
	defer ticker.Stop()

	e.lastReport = time.Now()

	for {
		select {
		case <-ctx.Done():
			e.flush()
			e.log.Info("engine stopped")
			return nil

		case cmd := <-e.commands:
			e.handleCommand(ctx, cmd, time.Now())

		case now := <-ticker.C:
			e.tick(ctx, now)
		}
	}
}

// handleCommand merges one update and reacts to what changed: colour
// changes retarget the fade and restart the persistence quiet period,
// effect changes reset the renderer, power and effect changes save
// immediately, and any change refreshes the read snapshot and notifies
// transports.
func (e *Engine) handleCommand(ctx context.Context, cmd command, now time.Time) {
	ch := e.store.ApplyUpdate(cmd.update)
	state := e.store.Current()

	if ch.Color {
		e.fade.Retarget(now, state.Color.Device())
		e.gate.markColourChange(now)
	}
	if ch.Effect {
		e.renderer.SetEffect(state.Effect)
	}

	if ch.Any() {
		e.publish(state)
	}

	if ch.Power || ch.Effect {
		if err := e.gate.saveNow(ctx, state); err != nil {
			e.log.Error("saving state", "error", err)
		}
	}

	if cmd.reply != nil {
		cmd.reply <- ch
	}
}

// tick renders one frame and services the debounced save.
func (e *Engine) tick(ctx context.Context, now time.Time) {
	visible := e.fade.Tick(now)

	state := e.store.Current()
	if state.Power {
		e.renderer.Render(now, visible, e.buf)
	} else {
		e.buf.Clear()
	}

	if err := e.device.Render(e.buf); err != nil {
		if e.renderErrs%renderErrorSample == 0 {
			e.log.Warn("rendering frame", "error", err, "failures", e.renderErrs+1)
		}
		e.renderErrs++
	} else {
		e.renderErrs = 0
	}

	saved, err := e.gate.maybeSave(ctx, now, state)
	if err != nil {
		e.log.Error("saving state", "error", err)
	}
	if saved {
		e.log.Debug("state persisted after quiet period")
	}

	e.frames++
	if e.telemetry != nil && now.Sub(e.lastReport) >= telemetryInterval {
		fps := float64(e.frames) / now.Sub(e.lastReport).Seconds()
		e.telemetry.WriteRenderMetric(e.deviceID, fps)
		e.frames = 0
		e.lastReport = now
	}
}

// publish refreshes the read snapshot, notifies transports and records
// the state metric.
func (e *Engine) publish(state light.State) {
	e.mu.Lock()
	e.snapshot = state
	e.mu.Unlock()

	payload, err := light.EncodeSnapshot(state)
	if err != nil {
		e.log.Error("encoding snapshot", "error", err)
		return
	}
	e.notify(state, payload)

	if e.telemetry != nil {
		e.telemetry.WriteStateMetric(e.deviceID, state.Power,
			state.Color.Hue, state.Color.Sat, state.Color.Val,
			state.Effect.String())
	}
}

// flush persists a pending debounced colour change during shutdown.
func (e *Engine) flush() {
	if !e.gate.pending() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.gate.saveNow(ctx, e.store.Current()); err != nil {
		e.log.Error("saving state during shutdown", "error", err)
	}
}
