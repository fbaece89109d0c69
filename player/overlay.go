package player

// Overlay is anything that can be presented over the player surface,
// ie; the output menu or an error screen. How it renders is not our
// concern; we only own when it appears and disappears.
type Overlay interface {
	Show()
	Hide()
}

// overlaySlot holds at most one overlay. All transitions go through
// show and clear; nothing else mutates the slot.
type overlaySlot struct {
	current Overlay
}

func (s *overlaySlot) show(o Overlay) {
	if s.current != nil {
		s.current.Hide()
	}
	s.current = o
	if o != nil {
		o.Show()
	}
}

func (s *overlaySlot) clear() {
	if s.current == nil {
		return
	}
	s.current.Hide()
	s.current = nil
}

func (s *overlaySlot) open() bool {
	return s.current != nil
}
