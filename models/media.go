package models

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Output is a single rendition of a piece of media, ie; a bitrate or
// format variant pointing at its own playable URL.
type Output struct {
	Label     string `json:"label"`
	URL       string `json:"url"`
	IsDefault bool   `json:"is_default"`
}

// DRMRequest describes how decryption keys for protected content are
// obtained. The actual key exchange is performed by the native player,
// we only carry the coordinates for it.
type DRMRequest struct {
	LicenseURL     string `json:"license_url"`
	CertificateURL string `json:"certificate_url"`
	Token          string `json:"token"`
}

// Media is everything the player needs to know about one piece of
// content. Once handed to a player it must not be mutated; replace it
// with a fresh assignment instead.
type Media struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	URL           string      `json:"url"`
	Outputs       []Output    `json:"outputs,omitempty"`
	ThumbnailURL  string      `json:"thumbnail_url,omitempty"`
	ThemeColour   string      `json:"theme_colour,omitempty"`
	IsAudio       bool        `json:"is_audio"`
	IsLive        bool        `json:"is_live"`
	AdTagURL      string      `json:"ad_tag_url,omitempty"`
	DRM           *DRMRequest `json:"drm,omitempty"`
	BlockIfRooted bool        `json:"block_if_rooted"`
}

// StorageID returns a stable identifier for persistence. Media handed to
// us by a backend usually carries its own ID but locally constructed
// media may not, so we fall back to hashing the fields that make it
// unique. It's deterministic so doesn't matter if we run it a bunch of
// times.
func (m Media) StorageID() string {
	if m.ID != "" {
		return m.ID
	}
	hashString := fmt.Sprintf("%s-%s-%t-%t", m.Title, m.URL, m.IsAudio, m.IsLive)
	return fmt.Sprintf("media:%d", xxhash.Sum64String(hashString))
}

// Category buckets media the way the session store indexes it.
func (m Media) Category() string {
	switch {
	case m.IsLive:
		return "live"
	case m.IsAudio:
		return "audio"
	default:
		return "video"
	}
}
