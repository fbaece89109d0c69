package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	hmacext "github.com/alexellis/hmac/v2"
	"github.com/rs/cors"

	"github.com/sambatech/player-sdk-go/config"
	"github.com/sambatech/player-sdk-go/db"
	"github.com/sambatech/player-sdk-go/events"
	"github.com/sambatech/player-sdk-go/models"
	"github.com/sambatech/player-sdk-go/player"
)

const signatureHeader = "X-Samba-Signature"

func renderJSONMessage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	res := map[string]string{"message": message}
	json.NewEncoder(w).Encode(res)
}

func renderJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// signed wraps a control handler with signature validation. The body is
// HMAC-SHA256 signed with the shared control secret; an unconfigured
// secret rejects everything rather than silently allowing everything.
func signed(secret string, next func(w http.ResponseWriter, body []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			renderJSONError(w, http.StatusMethodNotAllowed, "control endpoints only accept POST")
			return
		}
		if secret == "" {
			renderJSONError(w, http.StatusServiceUnavailable, "this endpoint is not properly configured")
			return
		}
		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			renderJSONError(w, http.StatusUnauthorized, "no signature was provided")
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			renderJSONError(w, http.StatusBadRequest, "failed to read request body as part of signature validation")
			return
		}
		if err := hmacext.Validate(body, fmt.Sprintf("sha256=%s", signature), secret); err != nil {
			slog.With(slog.Any("error", err)).Error("Failed signature validation")
			renderJSONError(w, http.StatusUnauthorized, "signature failed validation")
			return
		}
		next(w, body)
	}
}

func Register(mux *http.ServeMux, p *player.Player, store db.Store, cfg config.Config) http.Handler {

	controlSecret := cfg.Daemon.ControlSecret

	events.Server.CreateStream(events.StreamPlayback)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "This is the SambaPlayer companion daemon. Playback state lives under /api/v1.\n")
	})

	mux.HandleFunc("/api/v1/playing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"state":       p.CurrentState().String(),
			"position_ms": p.CurrentTime().Milliseconds(),
			"duration_ms": p.Duration().Milliseconds(),
			"disabled":    p.Disabled(),
			"media":       p.Media(),
		})
	})

	mux.HandleFunc("/api/v1/outputs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		media := p.Media()
		if media == nil {
			renderJSONError(w, http.StatusNotFound, "no media is assigned")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"outputs": media.Outputs,
			"current": p.OutputIndex(),
		})
	})

	mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
		limit := 5
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				renderJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}
		entries, err := store.GetHistory(limit)
		if err != nil {
			slog.Error("Failed to fetch history", slog.Any("error", err))
			renderJSONError(w, http.StatusInternalServerError, "something went wrong fetching history")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	mux.HandleFunc("/api/v1/player/load", signed(controlSecret, func(w http.ResponseWriter, body []byte) {
		var media models.Media
		if err := json.Unmarshal(body, &media); err != nil {
			renderJSONError(w, http.StatusBadRequest, "body must be a media description")
			return
		}
		if media.URL == "" && len(media.Outputs) == 0 {
			renderJSONError(w, http.StatusBadRequest, "media needs a url or at least one output")
			return
		}
		// Environment-level defaults cover media the backend sends without
		// its own ad tag or licence coordinates.
		if media.AdTagURL == "" {
			media.AdTagURL = cfg.Player.AdTagURL
		}
		if media.DRM == nil && cfg.Player.DRMLicenseURL != "" {
			media.DRM = &models.DRMRequest{LicenseURL: cfg.Player.DRMLicenseURL}
		}
		if cfg.Player.BlockIfRooted {
			media.BlockIfRooted = true
		}
		p.SetMedia(media)
		renderJSONMessage(w, "media assigned")
	}))

	mux.HandleFunc("/api/v1/player/play", signed(controlSecret, func(w http.ResponseWriter, _ []byte) {
		p.Play()
		renderJSONMessage(w, "play requested")
	}))

	mux.HandleFunc("/api/v1/player/pause", signed(controlSecret, func(w http.ResponseWriter, _ []byte) {
		p.Pause()
		renderJSONMessage(w, "pause requested")
	}))

	mux.HandleFunc("/api/v1/player/stop", signed(controlSecret, func(w http.ResponseWriter, _ []byte) {
		p.Stop()
		renderJSONMessage(w, "stop requested")
	}))

	mux.HandleFunc("/api/v1/player/seek", signed(controlSecret, func(w http.ResponseWriter, body []byte) {
		var req struct {
			PositionMs int64 `json:"position_ms"`
		}
		if err := json.Unmarshal(body, &req); err != nil || req.PositionMs < 0 {
			renderJSONError(w, http.StatusBadRequest, "position_ms must be a non-negative integer")
			return
		}
		p.Seek(time.Duration(req.PositionMs) * time.Millisecond)
		renderJSONMessage(w, "seek requested")
	}))

	mux.HandleFunc("/api/v1/player/output", signed(controlSecret, func(w http.ResponseWriter, body []byte) {
		var req struct {
			Index int `json:"index"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			renderJSONError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		p.SwitchOutput(req.Index)
		renderJSONMessage(w, "output switch requested")
	}))

	mux.HandleFunc("/events", events.Server.ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:8080", "http://localhost:1313"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Origin, Content-Type, Accept, " + signatureHeader},
	})

	return c.Handler(mux)
}
