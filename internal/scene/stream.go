package scene

import "topoedit/internal/domain"

// OpType identifies a shape operation in a frame
type OpType string

const (
	OpCreate  OpType = "create"
	OpUpdate  OpType = "update"
	OpDestroy OpType = "destroy"
)

// Op is one shape change. Create and update carry the full shape state.
type Op struct {
	Type   OpType `json:"op"`
	Handle Handle `json:"handle"`
	Shape  *Shape `json:"shape,omitempty"`
}

// Frame is the batch of operations between two redraw requests
type Frame struct {
	Seq uint64 `json:"seq"`
	Ops []Op   `json:"ops"`
}

// Publisher receives completed frames
type Publisher interface {
	PublishFrame(f Frame)
}

// Stream is a Surface that records shape state in Memory and publishes
// the changes accumulated since the last redraw as a Frame. Updates to
// the same shape within a frame are coalesced.
type Stream struct {
	*Memory
	pub     Publisher
	seq     uint64
	pending []Op
	dirty   map[Handle]int // index into pending
}

// NewStream creates a streaming surface
func NewStream(pub Publisher) *Stream {
	return &Stream{
		Memory: NewMemory(),
		pub:    pub,
		dirty:  make(map[Handle]int),
	}
}

func (s *Stream) CreateShape(kind Kind, style Style) Handle {
	h := s.Memory.CreateShape(kind, style)
	s.record(OpCreate, h)
	return h
}

func (s *Stream) SetPosition(h Handle, x, y float64) {
	s.Memory.SetPosition(h, x, y)
	s.record(OpUpdate, h)
}

func (s *Stream) SetPoints(h Handle, from, to domain.Point) {
	s.Memory.SetPoints(h, from, to)
	s.record(OpUpdate, h)
}

func (s *Stream) SetStyle(h Handle, style Style) {
	s.Memory.SetStyle(h, style)
	s.record(OpUpdate, h)
}

func (s *Stream) DestroyShape(h Handle) {
	s.Memory.DestroyShape(h)
	if i, ok := s.dirty[h]; ok {
		created := s.pending[i].Type == OpCreate
		s.pending[i] = Op{}
		delete(s.dirty, h)
		if created {
			// created and destroyed inside one frame: the client never sees it
			return
		}
	}
	s.pending = append(s.pending, Op{Type: OpDestroy, Handle: h})
}

// RequestRedraw publishes the pending frame, if any
func (s *Stream) RequestRedraw() {
	s.Memory.RequestRedraw()

	ops := make([]Op, 0, len(s.pending))
	for _, op := range s.pending {
		if op.Type == "" {
			continue
		}
		if op.Shape != nil {
			// take the state as of the redraw
			if cur, ok := s.Memory.Shape(op.Handle); ok {
				op.Shape = &cur
			}
		}
		ops = append(ops, op)
	}
	s.pending = s.pending[:0]
	clear(s.dirty)

	if len(ops) == 0 {
		return
	}
	s.seq++
	s.pub.PublishFrame(Frame{Seq: s.seq, Ops: ops})
}

// Seq returns the sequence number of the last published frame
func (s *Stream) Seq() uint64 {
	return s.seq
}

func (s *Stream) record(t OpType, h Handle) {
	if _, ok := s.Memory.Shape(h); !ok {
		return
	}
	if _, ok := s.dirty[h]; ok {
		// create stays create; update coalesces
		return
	}
	s.dirty[h] = len(s.pending)
	s.pending = append(s.pending, Op{Type: t, Handle: h, Shape: &Shape{}})
}
