package events

import (
	"encoding/json"
	"log/slog"

	"github.com/r3labs/sse/v2"

	"github.com/sambatech/player-sdk-go/player"
)

// Payload is what clients receive for each lifecycle event. Just enough
// to render a now-playing view without rehydrating the whole API.
type Payload struct {
	Event      string `json:"event"`
	MediaID    string `json:"media_id,omitempty"`
	PositionMs int64  `json:"position_ms"`
	DurationMs int64  `json:"duration_ms"`
	ErrorKind  string `json:"error_kind,omitempty"`
	ErrorText  string `json:"error,omitempty"`
}

// Bridge forwards a player's lifecycle events onto the SSE stream. It
// is just another listener; attach it with player.Subscribe.
type Bridge struct {
	player *player.Player
}

func NewBridge(p *player.Player) *Bridge {
	return &Bridge{player: p}
}

func (b *Bridge) OnLoad()     { b.publish("load", nil) }
func (b *Bridge) OnStart()    { b.publish("start", nil) }
func (b *Bridge) OnResume()   { b.publish("resume", nil) }
func (b *Bridge) OnPause()    { b.publish("pause", nil) }
func (b *Bridge) OnProgress() { b.publish("progress", nil) }
func (b *Bridge) OnFinish()   { b.publish("finish", nil) }
func (b *Bridge) OnDestroy()  { b.publish("destroy", nil) }

func (b *Bridge) OnError(err *player.Error) { b.publish("error", err) }

func (b *Bridge) publish(event string, playerErr *player.Error) {
	if Server == nil {
		return
	}
	payload := Payload{
		Event:      event,
		PositionMs: b.player.CurrentTime().Milliseconds(),
		DurationMs: b.player.Duration().Milliseconds(),
	}
	if media := b.player.Media(); media != nil {
		payload.MediaID = media.StorageID()
	}
	if playerErr != nil {
		payload.ErrorKind = string(playerErr.Kind)
		payload.ErrorText = playerErr.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal event payload", slog.Any("error", err))
		return
	}
	Server.Publish(StreamPlayback, &sse.Event{Data: data})
}
