package player

import (
	"golang.org/x/exp/slices"

	"github.com/sambatech/player-sdk-go/models"
)

// noOutput is the sentinel index used when no rendition is selected.
const noOutput = -1

// outputSelector tracks which rendition of the current media is active.
// The output list itself is frozen at media assignment; only the index
// moves, and only through assign and Switch.
type outputSelector struct {
	outputs []models.Output
	current int
}

func newOutputSelector() *outputSelector {
	return &outputSelector{current: noOutput}
}

// assign installs a fresh output list and selects the first entry
// flagged as default, or nothing when no entry is flagged.
func (s *outputSelector) assign(outputs []models.Output) {
	s.outputs = outputs
	s.current = slices.IndexFunc(outputs, func(o models.Output) bool { return o.IsDefault })
}

// Switch moves the selection to index and returns the target output.
// Same-index, empty-list and out-of-range requests are no-ops. Note that
// the index is advanced before the caller validates the target URL;
// a URL that fails to parse leaves the selection already moved. That
// matches behaviour consumers have relied on for a long time, so it
// stays (see DESIGN.md).
func (s *outputSelector) Switch(index int) (models.Output, bool) {
	if index == s.current || len(s.outputs) == 0 || index < 0 || index >= len(s.outputs) {
		return models.Output{}, false
	}
	s.current = index
	return s.outputs[index], true
}

// resolve picks the playable URL for initial construction: the selected
// default output wins, then the first output, then the media's own URL.
func (s *outputSelector) resolve(media models.Media) (raw string, label string) {
	if s.current >= 0 && s.current < len(s.outputs) {
		o := s.outputs[s.current]
		return o.URL, o.Label
	}
	if len(s.outputs) > 0 {
		return s.outputs[0].URL, s.outputs[0].Label
	}
	return media.URL, ""
}

func (s *outputSelector) index() int {
	return s.current
}
