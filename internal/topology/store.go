package topology

import (
	"fmt"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

// nodeShapes are the shapes owned by one node
type nodeShapes struct {
	body     scene.Handle
	label    scene.Handle
	coverage scene.Handle // zero unless the node is an access point
}

func (ns nodeShapes) each(fn func(scene.Handle)) {
	for _, h := range []scene.Handle{ns.coverage, ns.body, ns.label} {
		if h != 0 {
			fn(h)
		}
	}
}

// Store owns the authoritative set of nodes and links and their adjacency
type Store struct {
	surface scene.Surface

	nodes     map[domain.NodeID]*domain.Node
	links     map[domain.LinkID]*domain.Link
	nodeOrder []domain.NodeID
	linkOrder []domain.LinkID
	incident  map[domain.NodeID][]domain.LinkID

	nodeShapes map[domain.NodeID]nodeShapes
	linkShapes map[domain.LinkID]scene.Handle

	nextNode uint64
	nextLink uint64
}

// NewStore creates an empty store drawing on surface
func NewStore(surface scene.Surface) *Store {
	s := &Store{surface: surface}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make(map[domain.NodeID]*domain.Node)
	s.links = make(map[domain.LinkID]*domain.Link)
	s.nodeOrder = nil
	s.linkOrder = nil
	s.incident = make(map[domain.NodeID][]domain.LinkID)
	s.nodeShapes = make(map[domain.NodeID]nodeShapes)
	s.linkShapes = make(map[domain.LinkID]scene.Handle)
	s.nextNode = 0
	s.nextLink = 0
}

// AddNode creates a node from spec and registers its shapes
func (s *Store) AddNode(spec domain.NodeSpec) domain.NodeID {
	s.nextNode++
	id := domain.NodeID(fmt.Sprintf("n%d", s.nextNode))
	node := domain.NewNode(id, spec)

	var shapes nodeShapes
	if node.HasCoverage() {
		shapes.coverage = s.surface.CreateShape(scene.KindCircle, coverageStyle(node))
	}
	shapes.body = s.surface.CreateShape(scene.KindCircle, bodyStyle(node))
	shapes.label = s.surface.CreateShape(scene.KindLabel, labelStyle(node))
	shapes.each(func(h scene.Handle) {
		s.surface.SetPosition(h, node.Position.X, node.Position.Y)
	})

	s.nodes[id] = node
	s.nodeOrder = append(s.nodeOrder, id)
	s.nodeShapes[id] = shapes
	return id
}

// Node returns the node with the given id
func (s *Store) Node(id domain.NodeID) (*domain.Node, error) {
	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	return node, nil
}

// Link returns the link with the given id
func (s *Store) Link(id domain.LinkID) (*domain.Link, error) {
	link, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	return link, nil
}

// AddLink connects two distinct existing nodes and renders the link
func (s *Store) AddLink(a, b domain.NodeID) (domain.LinkID, error) {
	if a == b {
		return "", fmt.Errorf("link %s to itself: %w", a, domain.ErrInvalidLink)
	}
	from, ok := s.nodes[a]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %s: %w", a, domain.ErrInvalidLink)
	}
	to, ok := s.nodes[b]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %s: %w", b, domain.ErrInvalidLink)
	}

	s.nextLink++
	id := domain.LinkID(fmt.Sprintf("l%d", s.nextLink))
	link := domain.NewLink(id, a, b)
	link.Geometry = domain.Segment{From: from.Center(), To: to.Center()}

	h := s.surface.CreateShape(scene.KindLine, linkStyle(link.Level))
	s.surface.SetPoints(h, link.Geometry.From, link.Geometry.To)

	s.links[id] = link
	s.linkOrder = append(s.linkOrder, id)
	s.linkShapes[id] = h
	s.incident[a] = append(s.incident[a], id)
	s.incident[b] = append(s.incident[b], id)
	return id, nil
}

// MoveNode sets a node's position and moves its shapes. Link geometry is
// left to the caller; see Synchronizer.
func (s *Store) MoveNode(id domain.NodeID, p domain.Point) error {
	node, err := s.Node(id)
	if err != nil {
		return err
	}
	node.Position = p
	s.nodeShapes[id].each(func(h scene.Handle) {
		s.surface.SetPosition(h, p.X, p.Y)
	})
	return nil
}

// RefreshLink recomputes a link's geometry from its endpoints' centers
func (s *Store) RefreshLink(id domain.LinkID) error {
	link, err := s.Link(id)
	if err != nil {
		return err
	}
	from, err := s.Node(link.FromID)
	if err != nil {
		return err
	}
	to, err := s.Node(link.ToID)
	if err != nil {
		return err
	}
	link.Geometry = domain.Segment{From: from.Center(), To: to.Center()}
	s.surface.SetPoints(s.linkShapes[id], link.Geometry.From, link.Geometry.To)
	return nil
}

// SetLinkLevel records a traffic classification and restyles the link
func (s *Store) SetLinkLevel(id domain.LinkID, level domain.TrafficLevel) error {
	link, err := s.Link(id)
	if err != nil {
		return err
	}
	link.Level = level
	s.surface.SetStyle(s.linkShapes[id], linkStyle(level))
	return nil
}

// Incident returns the ids of links touching the node in creation order
func (s *Store) Incident(id domain.NodeID) []domain.LinkID {
	ids := s.incident[id]
	out := make([]domain.LinkID, len(ids))
	copy(out, ids)
	return out
}

// RemoveAll destroys every node and link and clears all mappings. Ids
// restart from n1 and l1.
func (s *Store) RemoveAll() {
	for _, id := range s.linkOrder {
		s.surface.DestroyShape(s.linkShapes[id])
	}
	for _, id := range s.nodeOrder {
		s.nodeShapes[id].each(s.surface.DestroyShape)
	}
	s.reset()
}

// Nodes returns all nodes in creation order
func (s *Store) Nodes() []*domain.Node {
	out := make([]*domain.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id])
	}
	return out
}

// Links returns all links in creation order
func (s *Store) Links() []*domain.Link {
	out := make([]*domain.Link, 0, len(s.linkOrder))
	for _, id := range s.linkOrder {
		out = append(out, s.links[id])
	}
	return out
}

// NodeCount returns the number of nodes
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// LinkCount returns the number of links
func (s *Store) LinkCount() int {
	return len(s.links)
}
