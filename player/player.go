package player

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sambatech/player-sdk-go/models"
	"github.com/sambatech/player-sdk-go/utils"
)

// adTagMediaToken is the placeholder an ad tag template carries for the
// media identifier. Live media without an identifier substitutes the
// literal token "live" instead.
const (
	adTagMediaToken = "{media_id}"
	adTagLiveID     = "live"
)

// Player is the lifecycle coordinator. It owns the state translation
// from raw native transitions into ordered listener callbacks, the
// progress ticker, output selection and asset construction.
//
// All mutating operations are posted onto a single dispatch loop, which
// stands in for the UI thread of the original design: state is only
// ever touched from that loop, so no locking is needed beyond the small
// read mirror guarded by mu.
type Player struct {
	// RootCheck decides whether the host counts as rooted for media
	// carrying the block-if-rooted flag. Swap it out in tests.
	RootCheck func() bool
	// FetchPoster retrieves the poster image for video media and
	// returns its bytes plus a dominant theme colour.
	FetchPoster func(url string) ([]byte, string, error)
	// MenuBuilder produces the output menu overlay when the native
	// player reports the output button being pressed. Optional.
	MenuBuilder func() Overlay
	// ErrorScreenBuilder produces the overlay shown on terminal errors.
	// Optional; errors are still dispatched to listeners without it.
	ErrorScreenBuilder func(err *Error) Overlay

	factory   Factory
	notifs    *Notifications
	listeners *listenerRegistry
	ticker    *progressTicker
	outputs   *outputSelector

	menu        overlaySlot
	errorScreen overlaySlot

	// loop-owned state
	media              *models.Media
	native             Native
	currentState       State
	previousState      State
	loaded             bool
	started            bool
	stopping           bool
	pendingPlay        bool
	playingBeforeMenu  bool
	fullscreen         bool
	transitioning      bool
	controlsVisible    bool
	poster             []byte
	themeColour        string

	// read mirror for accessors called off the loop
	mu        sync.RWMutex
	mNative   Native
	mMedia    *models.Media
	mState    State
	mIndex    int
	mControls bool
	disabled  bool

	ctx    context.Context
	cancel context.CancelFunc
	tasks  chan func()
}

// New builds a player around the given native factory and starts its
// dispatch loop. The instance is live until Destroy.
func New(factory Factory) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		RootCheck:       utils.RootedHost,
		FetchPoster:     defaultPosterFetch,
		factory:         factory,
		notifs:          NewNotifications(),
		listeners:       &listenerRegistry{},
		outputs:         newOutputSelector(),
		controlsVisible: true,
		mControls:       true,
		mIndex:          noOutput,
		ctx:             ctx,
		cancel:          cancel,
		tasks:           make(chan func(), 64),
	}
	p.ticker = newProgressTicker(func() {
		p.post(p.handleTick)
	})
	go p.run()
	return p
}

func defaultPosterFetch(url string) ([]byte, string, error) {
	body, _, colours, err := utils.ExtractPoster(url)
	if err != nil {
		return nil, "", err
	}
	theme := ""
	if len(colours) > 0 {
		theme = colours[0]
	}
	return body, theme, nil
}

// run drains the task queue and the native notification channels until
// the player is destroyed. Everything that mutates player state happens
// here.
func (p *Player) run() {
	for {
		select {
		case <-p.ctx.Done():
			p.ticker.Stop()
			return
		case fn := <-p.tasks:
			fn()
		case s := <-p.notifs.StateChanged:
			p.handleStateChange(s)
		case <-p.notifs.Minimise:
			p.applyFullscreen(false)
		case <-p.notifs.OutputButton:
			p.toggleMenu()
		}
	}
}

// post schedules fn on the dispatch loop. Work posted after Destroy is
// silently dropped, which is the cancellation model for in-flight
// deferred tasks.
func (p *Player) post(fn func()) {
	select {
	case <-p.ctx.Done():
	case p.tasks <- fn:
	}
}

// Subscribe registers a listener for every subsequent lifecycle event
// and returns a handle that removes it again.
func (p *Player) Subscribe(l Listener) (unsubscribe func()) {
	return p.listeners.subscribe(l)
}

// --- Public control surface ---

// SetMedia assigns new media and kicks off the construction pipeline.
// The call itself never blocks: video media fetches its poster in the
// background, audio media constructs the native player straight away.
// A fresh assignment is also the only recovery path after an error.
func (p *Player) SetMedia(media models.Media) {
	p.post(func() {
		p.setDisabled(false)
		if media.BlockIfRooted && p.RootCheck != nil && p.RootCheck() {
			p.dispatchError(NewError(ErrorRootedDevice, "playback is blocked on rooted devices"))
			return
		}
		if p.native != nil {
			p.native.Reset()
			p.setNative(nil)
		}
		p.errorScreen.clear()
		p.media = &media
		p.loaded = false
		p.started = false
		p.stopping = false
		p.pendingPlay = false
		p.poster = nil
		p.themeColour = media.ThemeColour
		p.outputs.assign(media.Outputs)
		p.mirror()

		slog.Debug("Media assigned",
			slog.String("media_id", media.StorageID()),
			slog.String("category", media.Category()),
			slog.Int("outputs", len(media.Outputs)))

		if media.IsAudio {
			p.create()
			return
		}
		if media.ThumbnailURL != "" {
			go p.buildPoster(media.ThumbnailURL)
		}
	})
}

// Play starts playback, constructing the native player first if it does
// not exist yet. It is a no-op while the player is disabled.
func (p *Player) Play() {
	p.post(func() {
		if p.isDisabled() {
			return
		}
		if p.native == nil {
			p.pendingPlay = true
			p.create()
			return
		}
		p.native.Play()
	})
}

// Pause pauses playback, remembering whether playback was active so a
// later menu dismissal knows whether to resume.
func (p *Player) Pause() {
	p.post(p.pauseNow)
}

// Stop pauses and rewinds to zero. The resulting Paused transition is
// swallowed rather than surfaced as an onPause event.
func (p *Player) Stop() {
	p.post(func() {
		if p.native == nil {
			return
		}
		p.stopping = true
		p.pauseNow()
		p.seekNow(0)
	})
}

// Seek moves the playhead. Live media cannot seek, so this is a no-op
// for it.
func (p *Player) Seek(pos time.Duration) {
	p.post(func() {
		p.seekNow(pos)
	})
}

// SwitchOutput swaps playback to the rendition at index without tearing
// down the surrounding player. Same-index, missing-list and
// out-of-range requests do nothing.
func (p *Player) SwitchOutput(index int) {
	p.post(func() {
		p.switchOutput(index)
	})
}

// Destroy tears the player down: listeners get onDestroy, the ticker
// stops, the native player is reset and detached and the dispatch loop
// ends. Safe to call before any native player exists.
func (p *Player) Destroy() {
	p.post(func() {
		p.destroy(nil)
		p.cancel()
	})
}

// DestroyWithError tears down through the error-display path instead:
// the error screen is attached and the player disabled, but the native
// player is left in place. A nil error behaves like Destroy.
func (p *Player) DestroyWithError(err *Error) {
	if err == nil {
		p.Destroy()
		return
	}
	p.post(func() {
		p.setDisabled(true)
		p.destroy(err)
		p.cancel()
	})
}

// ShowMenu presents the output menu, pausing playback while it is up.
func (p *Player) ShowMenu(menu Overlay) {
	p.post(func() {
		p.showMenu(menu)
	})
}

// HideMenu dismisses the output menu and resumes playback if it was
// active when the menu appeared.
func (p *Player) HideMenu() {
	p.post(p.hideMenu)
}

// SetFullscreen switches between embedded and fullscreen presentation.
// An open menu is hidden for the duration of the transition and shown
// again afterwards; re-entrant transitions are ignored.
func (p *Player) SetFullscreen(on bool) {
	p.post(func() {
		p.applyFullscreen(on)
	})
}

// SetControlsVisible toggles the native control bar flag used when the
// native player is built.
func (p *Player) SetControlsVisible(visible bool) {
	p.post(func() {
		p.controlsVisible = visible
		p.mu.Lock()
		p.mControls = visible
		p.mu.Unlock()
	})
}

// ControlsVisible reports the control bar flag the next native player
// will be built with.
func (p *Player) ControlsVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mControls
}

// --- Read-only accessors (safe from any goroutine) ---

func (p *Player) CurrentTime() time.Duration {
	if n := p.nativeRef(); n != nil {
		return n.CurrentTime()
	}
	return 0
}

func (p *Player) Duration() time.Duration {
	if n := p.nativeRef(); n != nil {
		return n.Duration()
	}
	return 0
}

func (p *Player) IsPlaying() bool {
	if n := p.nativeRef(); n != nil {
		return n.State() == StatePlaying
	}
	return false
}

// CurrentState returns the last state observed from the native player.
func (p *Player) CurrentState() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mState
}

// Media returns a copy of the assigned media, or nil before assignment.
func (p *Player) Media() *models.Media {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.mMedia == nil {
		return nil
	}
	m := *p.mMedia
	return &m
}

// OutputIndex returns the active rendition index, or -1 when no
// rendition is selected.
func (p *Player) OutputIndex() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mIndex
}

// Disabled reports whether the player has been torn down or hit a
// terminal error. A disabled player ignores Play until fresh media is
// assigned.
func (p *Player) Disabled() bool {
	return p.isDisabled()
}

// --- State translation ---

// handleStateChange maps one raw native transition onto lifecycle
// events. The stop flag and the scrubbing flag take precedence over
// ordinary previous-state comparisons.
func (p *Player) handleStateChange(state State) {
	if p.native == nil {
		return
	}
	prev := p.currentState
	p.previousState = prev
	p.currentState = state
	p.mirror()

	slog.Debug("Playback state changed",
		slog.String("from", prev.String()),
		slog.String("to", state.String()))

	switch state {
	case StateEmpty, StateReadyToPlay:
		if !p.loaded {
			p.loaded = true
			p.listeners.each(func(l Listener) { l.OnLoad() })
		}
		if p.pendingPlay {
			p.pendingPlay = false
			p.native.Play()
		}
	case StatePlaying:
		if !p.started {
			p.started = true
			p.listeners.each(func(l Listener) { l.OnStart() })
		}
		if !p.native.Scrubbing() && prev != StateSeeking {
			p.listeners.each(func(l Listener) { l.OnResume() })
		}
		p.ticker.Start()
	case StatePaused:
		p.ticker.Stop()
		if p.stopping {
			// Pause came from our own Stop; consume the flag and
			// surface nothing.
			p.stopping = false
			return
		}
		if prev == StateSeeking {
			// Paused straight out of a seek still needs to refresh
			// external progress readers.
			p.listeners.each(func(l Listener) { l.OnProgress() })
			return
		}
		if !p.native.Scrubbing() {
			p.listeners.each(func(l Listener) { l.OnPause() })
		}
	case StateFinished:
		p.ticker.Stop()
		p.listeners.each(func(l Listener) { l.OnFinish() })
	case StateError:
		if err := p.native.Err(); err != nil {
			p.dispatchError(NewError(ErrorUnknown, err.Error()))
		}
	}
}

func (p *Player) handleTick() {
	if p.currentState != StatePlaying {
		return
	}
	p.listeners.each(func(l Listener) { l.OnProgress() })
}

// --- Construction ---

// create resolves the playable URL, builds the asset and the native
// player and loads the stream. Any failure aborts construction entirely
// with nothing left attached.
func (p *Player) create() {
	if p.native != nil || p.media == nil {
		return
	}
	media := *p.media

	raw, label := p.outputs.resolve(media)
	asset, err := models.NewAsset(raw)
	if err != nil {
		p.dispatchError(NewError(ErrorInvalidURL, err.Error()))
		return
	}
	asset.OutputLabel = label
	if media.DRM != nil {
		asset.AttachDRM(media.DRM)
	}

	native, err := p.factory(NativeConfig{
		Audio:           media.IsAudio,
		Live:            media.IsLive,
		ControlsVisible: p.controlsVisible,
	}, p.notifs)
	if err != nil {
		p.dispatchError(NewError(ErrorCreatingPlayer, err.Error()))
		return
	}

	adTag := ""
	if media.AdTagURL != "" {
		adTag = injectAdTag(media.AdTagURL, media.ID)
	}
	if err := native.LoadStream(asset, adTag); err != nil {
		p.dispatchError(NewError(ErrorCreatingPlayer, err.Error()))
		return
	}

	p.setNative(native)
	slog.Info("Native player created",
		slog.String("media_id", media.StorageID()),
		slog.String("url", asset.URL.String()),
		slog.Bool("drm", asset.Protected()),
		slog.Bool("live", media.IsLive))
}

// injectAdTag embeds the media identifier into an ad tag template. Live
// media without an identifier uses the literal "live" token.
func injectAdTag(tag, mediaID string) string {
	id := mediaID
	if id == "" {
		id = adTagLiveID
	}
	return strings.ReplaceAll(tag, adTagMediaToken, id)
}

// buildPoster runs off the loop; the result is posted back so shared
// state is only touched from the loop. Stale results for replaced media
// are discarded on arrival.
func (p *Player) buildPoster(url string) {
	data, theme, err := p.FetchPoster(url)
	if err != nil {
		slog.Warn("Failed to fetch poster", slog.String("url", url), slog.Any("error", err))
		return
	}
	p.post(func() {
		if p.media == nil || p.media.ThumbnailURL != url {
			return
		}
		p.poster = data
		if p.themeColour == "" {
			p.themeColour = theme
		}
	})
}

// Poster returns the fetched poster bytes and the effective theme
// colour, if any.
func (p *Player) Poster() ([]byte, string) {
	type result struct {
		data  []byte
		theme string
	}
	out := make(chan result, 1)
	p.post(func() {
		out <- result{p.poster, p.themeColour}
	})
	select {
	case r := <-out:
		return r.data, r.theme
	case <-p.ctx.Done():
		return nil, ""
	}
}

// --- Internal operations (loop only) ---

func (p *Player) pauseNow() {
	if p.native == nil {
		return
	}
	p.playingBeforeMenu = p.native.State() == StatePlaying
	p.native.Pause()
}

func (p *Player) seekNow(pos time.Duration) {
	if p.media == nil || p.media.IsLive || p.native == nil {
		return
	}
	p.native.Seek(pos)
}

func (p *Player) switchOutput(index int) {
	if p.media == nil || p.native == nil {
		return
	}
	target, ok := p.outputs.Switch(index)
	p.mirror()
	if !ok {
		return
	}
	asset, err := models.NewAsset(target.URL)
	if err != nil {
		p.dispatchError(NewError(ErrorInvalidURL, err.Error()))
		return
	}
	asset.OutputLabel = target.Label
	if p.media.DRM != nil {
		asset.AttachDRM(p.media.DRM)
	}
	p.native.SwitchAsset(asset)
	slog.Info("Switched output",
		slog.Int("index", index),
		slog.String("label", target.Label))
}

func (p *Player) showMenu(menu Overlay) {
	if menu == nil {
		return
	}
	p.pauseNow()
	p.menu.show(menu)
}

func (p *Player) hideMenu() {
	if !p.menu.open() {
		return
	}
	p.menu.clear()
	if p.playingBeforeMenu && p.native != nil {
		p.native.Play()
	}
}

func (p *Player) toggleMenu() {
	if p.menu.open() {
		p.hideMenu()
		return
	}
	if p.MenuBuilder != nil {
		p.showMenu(p.MenuBuilder())
	}
}

func (p *Player) applyFullscreen(on bool) {
	if p.transitioning || on == p.fullscreen {
		return
	}
	p.transitioning = true
	menu := p.menu.current
	if menu != nil {
		p.menu.clear()
	}
	p.fullscreen = on
	if menu != nil {
		p.menu.show(menu)
	}
	p.transitioning = false
}

// dispatchError is the single terminal error path: the player is
// disabled, every listener hears onError asynchronously and the error
// teardown runs afterwards.
func (p *Player) dispatchError(err *Error) {
	p.setDisabled(true)
	slog.Error("Playback error",
		slog.String("kind", string(err.Kind)),
		slog.String("message", err.Error()))
	p.post(func() {
		p.listeners.each(func(l Listener) { l.OnError(err) })
		p.destroy(err)
	})
}

// destroy implements both teardown paths. With dispErr set, only the
// error screen is attached and the native player is left in place so the
// failure can still be inspected; only the clean path resets it. With no
// native player, everything except the error screen is skipped.
func (p *Player) destroy(dispErr *Error) {
	if dispErr != nil {
		p.showErrorScreen(dispErr)
	}
	if p.native == nil {
		return
	}
	p.listeners.each(func(l Listener) { l.OnDestroy() })
	p.ticker.Stop()
	if dispErr == nil {
		p.menu.clear()
		p.errorScreen.clear()
		p.native.Reset()
		p.setNative(nil)
		p.setDisabled(true)
	}
}

func (p *Player) showErrorScreen(err *Error) {
	if p.ErrorScreenBuilder == nil {
		return
	}
	p.errorScreen.show(p.ErrorScreenBuilder(err))
}

// --- Read-mirror plumbing ---

func (p *Player) mirror() {
	p.mu.Lock()
	p.mMedia = p.media
	p.mState = p.currentState
	p.mIndex = p.outputs.index()
	p.mu.Unlock()
}

func (p *Player) setNative(n Native) {
	p.native = n
	p.mu.Lock()
	p.mNative = n
	p.mu.Unlock()
}

func (p *Player) nativeRef() Native {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mNative
}

func (p *Player) setDisabled(v bool) {
	p.mu.Lock()
	p.disabled = v
	p.mu.Unlock()
}

func (p *Player) isDisabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.disabled
}
