package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageIDPrefersBackendID(t *testing.T) {
	media := Media{ID: "vod-7", Title: "Keynote", URL: "https://cdn.example.org/keynote.m3u8"}
	assert.Equal(t, "vod-7", media.StorageID())
}

func TestStorageIDFallbackIsStable(t *testing.T) {
	media := Media{Title: "Keynote", URL: "https://cdn.example.org/keynote.m3u8"}
	first := media.StorageID()
	assert.Contains(t, first, "media:")
	assert.Equal(t, first, media.StorageID())

	other := Media{Title: "Keynote", URL: "https://cdn.example.org/keynote.m3u8", IsAudio: true}
	assert.NotEqual(t, first, other.StorageID())
}

func TestCategoryBucketsLiveBeforeAudio(t *testing.T) {
	assert.Equal(t, "video", Media{}.Category())
	assert.Equal(t, "audio", Media{IsAudio: true}.Category())
	assert.Equal(t, "live", Media{IsLive: true, IsAudio: true}.Category())
}

func TestNewAssetRejectsRelativeURLs(t *testing.T) {
	for _, raw := range []string{"", "not a url at all://", "/relative/path.m3u8", "cdn.example.org/implicit.m3u8"} {
		_, err := NewAsset(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestNewAssetParsesAbsoluteURL(t *testing.T) {
	asset, err := NewAsset("https://cdn.example.org/stream.m3u8?token=abc")
	require.NoError(t, err)
	assert.Equal(t, "cdn.example.org", asset.URL.Host)
	assert.False(t, asset.Protected())

	asset.AttachDRM(&DRMRequest{LicenseURL: "https://drm.example.org/license"})
	assert.True(t, asset.Protected())
}
