package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambatech/player-sdk-go/models"
)

func TestAssignSelectsFirstDefaultOutput(t *testing.T) {
	s := newOutputSelector()
	s.assign([]models.Output{
		{Label: "480p", URL: "https://cdn.example.com/480.m3u8"},
		{Label: "720p", URL: "https://cdn.example.com/720.m3u8", IsDefault: true},
		{Label: "1080p", URL: "https://cdn.example.com/1080.m3u8", IsDefault: true},
	})
	assert.Equal(t, 1, s.index(), "first default entry wins")

	s.assign([]models.Output{{Label: "480p", URL: "https://cdn.example.com/480.m3u8"}})
	assert.Equal(t, noOutput, s.index(), "no default flag means no selection")

	s.assign(nil)
	assert.Equal(t, noOutput, s.index())
}

func TestSwitchRejectsSameEmptyAndOutOfRange(t *testing.T) {
	s := newOutputSelector()
	s.assign([]models.Output{
		{Label: "480p", URL: "https://cdn.example.com/480.m3u8", IsDefault: true},
		{Label: "720p", URL: "https://cdn.example.com/720.m3u8"},
	})

	_, ok := s.Switch(0)
	assert.False(t, ok, "same index is a no-op")
	_, ok = s.Switch(-1)
	assert.False(t, ok)
	_, ok = s.Switch(2)
	assert.False(t, ok)
	assert.Equal(t, 0, s.index(), "rejected switches leave the selection alone")

	empty := newOutputSelector()
	_, ok = empty.Switch(0)
	assert.False(t, ok, "no output list configured")
}

func TestResolvePrecedence(t *testing.T) {
	media := models.Media{URL: "https://cdn.example.com/top.m3u8"}

	s := newOutputSelector()
	raw, label := s.resolve(media)
	assert.Equal(t, "https://cdn.example.com/top.m3u8", raw)
	assert.Empty(t, label)

	s.assign([]models.Output{
		{Label: "480p", URL: "https://cdn.example.com/480.m3u8"},
		{Label: "720p", URL: "https://cdn.example.com/720.m3u8", IsDefault: true},
	})
	raw, label = s.resolve(media)
	assert.Equal(t, "https://cdn.example.com/720.m3u8", raw, "default output wins")
	assert.Equal(t, "720p", label)

	s.assign([]models.Output{
		{Label: "480p", URL: "https://cdn.example.com/480.m3u8"},
		{Label: "720p", URL: "https://cdn.example.com/720.m3u8"},
	})
	raw, _ = s.resolve(media)
	assert.Equal(t, "https://cdn.example.com/480.m3u8", raw, "first output when nothing is flagged")
}

func TestSwitchOutputRebuildsAssetOnce(t *testing.T) {
	outputs := []models.Output{
		{Label: "a", URL: "https://cdn.example.com/a.m3u8"},
		{Label: "b", URL: "https://cdn.example.com/b.m3u8", IsDefault: true},
	}
	p, rec, native := newReadyPlayer(t, outputs...)
	_ = rec

	assert.Equal(t, 1, p.OutputIndex(), "initial selection follows the default flag")

	p.SwitchOutput(0)
	drain(t, p)
	assert.Equal(t, 0, p.OutputIndex())
	require.Len(t, native().switched, 1)
	assert.Equal(t, "https://cdn.example.com/a.m3u8", native().switched[0].URL.String())
	assert.Equal(t, "a", native().switched[0].OutputLabel)

	// Same index again: nothing is rebuilt.
	p.SwitchOutput(0)
	drain(t, p)
	assert.Equal(t, 0, p.OutputIndex())
	assert.Len(t, native().switched, 1)
}

func TestSwitchOutputOutOfRangeChangesNothing(t *testing.T) {
	outputs := []models.Output{
		{Label: "a", URL: "https://cdn.example.com/a.m3u8", IsDefault: true},
	}
	p, rec, native := newReadyPlayer(t, outputs...)

	p.SwitchOutput(7)
	drain(t, p)
	assert.Equal(t, 0, p.OutputIndex())
	assert.Empty(t, native().switched)
	assert.Zero(t, rec.count("error"), "out of range emits no error")
}

func TestSwitchOutputBadURLAdvancesIndexAndErrors(t *testing.T) {
	outputs := []models.Output{
		{Label: "good", URL: "https://cdn.example.com/a.m3u8", IsDefault: true},
		{Label: "bad", URL: "not-absolute"},
	}
	p, rec, native := newReadyPlayer(t, outputs...)

	p.SwitchOutput(1)
	waitFor(t, func() bool { return rec.count("error") == 1 }, "bad url not dispatched")
	require.Len(t, rec.errs, 1)
	assert.Equal(t, ErrorInvalidURL, rec.errs[0].Kind)
	assert.Empty(t, native().switched, "no asset handed over on failure")
	// The index moves before the URL is validated; the failure leaves
	// it advanced.
	assert.Equal(t, 1, p.OutputIndex())
}

func TestSwitchOutputReattachesDRM(t *testing.T) {
	outputs := []models.Output{
		{Label: "a", URL: "https://cdn.example.com/a.m3u8", IsDefault: true},
		{Label: "b", URL: "https://cdn.example.com/b.m3u8"},
	}
	factory, native := fakeFactory()
	p := New(factory)
	p.RootCheck = func() bool { return false }
	t.Cleanup(p.Destroy)

	rec := &recorder{}
	p.Subscribe(rec)
	media := audioMedia(outputs...)
	media.DRM = &models.DRMRequest{LicenseURL: "https://drm.example.com/license"}
	p.SetMedia(media)
	waitFor(t, func() bool { return rec.count("load") == 1 }, "never loaded")

	require.Len(t, native().loaded, 1)
	assert.True(t, native().loaded[0].Protected(), "initial asset must carry the DRM binding")

	p.SwitchOutput(1)
	drain(t, p)
	require.Len(t, native().switched, 1)
	assert.True(t, native().switched[0].Protected(), "rebuilt asset must carry the DRM binding again")
}
