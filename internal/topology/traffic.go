package topology

import (
	"fmt"
	"log"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

// Rand is the randomness the animator needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
}

// AnimationHandle identifies one running traffic animation
type AnimationHandle uint64

// TrafficOptions configures the animator
type TrafficOptions struct {
	// Speeds are sampled uniformly in [MinSpeed, MaxSpeed), so MinSpeed
	// itself can be drawn. Equal values give every animation the same
	// speed.
	MinSpeed float64
	MaxSpeed float64

	// MaxPerLink caps concurrent animations on one link. Zero means no cap.
	MaxPerLink int

	Thresholds domain.Thresholds
}

// DefaultTrafficOptions returns the stock animation settings
func DefaultTrafficOptions() TrafficOptions {
	return TrafficOptions{
		MinSpeed:   0.01,
		MaxSpeed:   0.03,
		Thresholds: domain.DefaultThresholds(),
	}
}

// Animation is one marker cycling along a link
type Animation struct {
	handle AnimationHandle
	link   domain.LinkID
	t      float64
	speed  float64
	marker scene.Handle
}

// Handle returns the animation's handle
func (a *Animation) Handle() AnimationHandle { return a.handle }

// Link returns the animated link
func (a *Animation) Link() domain.LinkID { return a.link }

// Progress returns t in [0,1)
func (a *Animation) Progress() float64 { return a.t }

// Speed returns the per-frame increment of t
func (a *Animation) Speed() float64 { return a.speed }

// step advances t, wrapping to 0 once it reaches 1
func (a *Animation) step() {
	a.t += a.speed
	if a.t >= 1 {
		a.t = 0
	}
}

// Animator drives traffic animations. Each frame it advances every live
// animation, moves its marker along the link's current geometry and
// re-samples the link's traffic level.
type Animator struct {
	store   *Store
	surface scene.Surface
	rand    Rand
	opts    TrafficOptions

	active   []*Animation // start order
	byHandle map[AnimationHandle]*Animation
	byLink   map[domain.LinkID]int
	next     AnimationHandle
}

// NewAnimator creates an animator with no running animations
func NewAnimator(store *Store, surface scene.Surface, rnd Rand, opts TrafficOptions) *Animator {
	return &Animator{
		store:    store,
		surface:  surface,
		rand:     rnd,
		opts:     opts,
		byHandle: make(map[AnimationHandle]*Animation),
		byLink:   make(map[domain.LinkID]int),
	}
}

// Start spawns an independent animation on the link. Repeated starts on
// the same link stack until MaxPerLink, if set.
func (a *Animator) Start(id domain.LinkID) (AnimationHandle, error) {
	link, err := a.store.Link(id)
	if err != nil {
		return 0, err
	}
	if a.opts.MaxPerLink > 0 && a.byLink[id] >= a.opts.MaxPerLink {
		return 0, fmt.Errorf("link %s has %d animations: %w", id, a.byLink[id], domain.ErrTrafficLimit)
	}

	a.next++
	anim := &Animation{
		handle: a.next,
		link:   id,
		speed:  a.opts.MinSpeed + a.rand.Float64()*(a.opts.MaxSpeed-a.opts.MinSpeed),
		marker: a.surface.CreateShape(scene.KindCircle, markerStyle()),
	}
	start := link.Geometry.At(0)
	a.surface.SetPosition(anim.marker, start.X, start.Y)

	a.active = append(a.active, anim)
	a.byHandle[anim.handle] = anim
	a.byLink[id]++
	return anim.handle, nil
}

// Stop ends an animation and destroys its marker. When the link's last
// animation stops the link returns to its idle style.
func (a *Animator) Stop(h AnimationHandle) error {
	anim, ok := a.byHandle[h]
	if !ok {
		return fmt.Errorf("animation %d: %w", h, domain.ErrNotFound)
	}
	a.remove(anim)
	for i, cur := range a.active {
		if cur == anim {
			a.active = append(a.active[:i], a.active[i+1:]...)
			break
		}
	}
	if a.byLink[anim.link] == 0 {
		// the link may already be gone
		_ = a.store.SetLinkLevel(anim.link, domain.TrafficIdle)
	}
	return nil
}

// StopAll ends every animation and returns how many were stopped
func (a *Animator) StopAll() int {
	n := len(a.active)
	for _, anim := range a.active {
		a.surface.DestroyShape(anim.marker)
	}
	a.active = nil
	a.byHandle = make(map[AnimationHandle]*Animation)
	a.byLink = make(map[domain.LinkID]int)
	return n
}

// Advance steps every live animation by one frame and returns how many
// stepped. An animation whose link no longer exists is stopped.
func (a *Animator) Advance() int {
	stepped := 0
	live := a.active[:0]
	for _, anim := range a.active {
		link, err := a.store.Link(anim.link)
		if err != nil {
			log.Printf("Stopping traffic animation %d: %v", anim.handle, err)
			a.remove(anim)
			continue
		}

		anim.step()
		pos := link.Geometry.At(anim.t)
		a.surface.SetPosition(anim.marker, pos.X, pos.Y)

		level := a.opts.Thresholds.Classify(a.rand.Float64())
		if err := a.store.SetLinkLevel(anim.link, level); err != nil {
			log.Printf("Failed to restyle link %s: %v", anim.link, err)
		}

		live = append(live, anim)
		stepped++
	}
	clear(a.active[len(live):])
	a.active = live
	return stepped
}

// Get returns the animation with handle h
func (a *Animator) Get(h AnimationHandle) (*Animation, bool) {
	anim, ok := a.byHandle[h]
	return anim, ok
}

// Active returns the live animations in start order
func (a *Animator) Active() []*Animation {
	out := make([]*Animation, len(a.active))
	copy(out, a.active)
	return out
}

// Count returns the number of live animations
func (a *Animator) Count() int {
	return len(a.active)
}

// CountOn returns the number of live animations on a link
func (a *Animator) CountOn(id domain.LinkID) int {
	return a.byLink[id]
}

// remove destroys the marker and drops the animation from the indexes.
// The caller removes it from active.
func (a *Animator) remove(anim *Animation) {
	a.surface.DestroyShape(anim.marker)
	delete(a.byHandle, anim.handle)
	a.byLink[anim.link]--
	if a.byLink[anim.link] <= 0 {
		delete(a.byLink, anim.link)
	}
}
