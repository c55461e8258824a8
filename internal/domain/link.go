package domain

// LinkID identifies a link for the lifetime of the topology
type LinkID string

// Link represents an undirected connection between two distinct nodes
type Link struct {
	ID       LinkID       `json:"id"`
	FromID   NodeID       `json:"from_id"`
	ToID     NodeID       `json:"to_id"`
	Geometry Segment      `json:"geometry"`
	Level    TrafficLevel `json:"level"`
}

// NewLink creates an idle link between two node ids
func NewLink(id LinkID, from, to NodeID) *Link {
	return &Link{
		ID:     id,
		FromID: from,
		ToID:   to,
		Level:  TrafficIdle,
	}
}

// Touches reports whether the node is one of the link's endpoints
func (l *Link) Touches(id NodeID) bool {
	return l.FromID == id || l.ToID == id
}

// Other returns the endpoint opposite id
func (l *Link) Other(id NodeID) NodeID {
	if l.FromID == id {
		return l.ToID
	}
	return l.FromID
}
