package models

import (
	"fmt"
	"net/url"
)

// Asset is the playable unit handed to the native player: a parsed URL
// plus an optional DRM binding. A fresh Asset is built every time the
// source URL changes, including output switches.
type Asset struct {
	URL         *url.URL
	OutputLabel string
	DRM         *DRMRequest
}

// NewAsset parses raw into a playable asset. Relative or schemeless
// strings are rejected since the native player can only load absolute
// stream URLs.
func NewAsset(raw string) (*Asset, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stream url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("stream url %q is not absolute", raw)
	}
	return &Asset{URL: u}, nil
}

// AttachDRM binds a decryption descriptor to this asset. The binding is
// per asset, so a rebuilt asset needs the descriptor attached again.
func (a *Asset) AttachDRM(req *DRMRequest) {
	a.DRM = req
}

// Protected reports whether the asset carries a DRM binding.
func (a *Asset) Protected() bool {
	return a.DRM != nil
}
