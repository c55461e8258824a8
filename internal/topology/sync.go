package topology

import (
	"topoedit/internal/domain"
)

// Synchronizer keeps link geometry equal to endpoint centers when a node
// moves. Everything happens before the caller requests a redraw.
type Synchronizer struct {
	store *Store
	draw  *LinkDraw
}

// NewSynchronizer creates a synchronizer over store and the link gesture
func NewSynchronizer(store *Store, draw *LinkDraw) *Synchronizer {
	return &Synchronizer{store: store, draw: draw}
}

// OnNodeMoved moves the node and refreshes every incident link once. It
// returns the number of links refreshed.
func (s *Synchronizer) OnNodeMoved(id domain.NodeID, p domain.Point) (int, error) {
	if err := s.store.MoveNode(id, p); err != nil {
		return 0, err
	}

	refreshed := 0
	for _, linkID := range s.store.Incident(id) {
		if err := s.store.RefreshLink(linkID); err != nil {
			return refreshed, err
		}
		refreshed++
	}

	s.draw.AnchorMoved(id)
	return refreshed, nil
}
