package events

import "github.com/r3labs/sse/v2"

// StreamPlayback is the SSE stream lifecycle payloads go out on.
const StreamPlayback = "playback"

var Server *sse.Server

func Init() {
	server := sse.New()
	server.AutoReplay = false
	Server = server
}
