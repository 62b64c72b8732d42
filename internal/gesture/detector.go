// Package gesture classifies horizontal drag and swipe gestures into page navigation.
//
// A Detector is a two-state machine (Idle, Tracking) fed with pointer coordinates. The web
// dashboard feeds it the coordinates posted by the sources grid; the terminal dashboard
// feeds it mouse cell columns.
package gesture

// DefaultMinDistance is the swipe threshold in CSS pixels.
const DefaultMinDistance = 50

// DefaultCellMinDistance is the swipe threshold in terminal cells.
const DefaultCellMinDistance = 8

// Direction is the navigation outcome of a completed gesture.
type Direction int

const (
	// None means the gesture was too short or incomplete.
	None Direction = iota
	// Advance moves to the next page (pointer travelled right to left).
	Advance
	// Retreat moves to the previous page (pointer travelled left to right).
	Retreat
)

// String returns the direction name used in logs and metrics labels.
func (d Direction) String() string {
	switch d {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	default:
		return "none"
	}
}

// State is the detector state.
type State int

const (
	Idle State = iota
	Tracking
)

// Detector tracks one gesture at a time. It is not safe for concurrent use.
type Detector struct {
	minDistance float64
	state       State
	startX      float64
	endX        float64
	hasEnd      bool
}

// NewDetector returns an idle detector. A non-positive minDistance uses DefaultMinDistance.
func NewDetector(minDistance float64) *Detector {
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	return &Detector{minDistance: minDistance}
}

// State returns the current state.
func (d *Detector) State() State { return d.state }

// MinDistance returns the swipe threshold.
func (d *Detector) MinDistance() float64 { return d.minDistance }

// Start begins tracking at x and clears any previous end coordinate.
func (d *Detector) Start(x float64) {
	d.state = Tracking
	d.startX = x
	d.endX = 0
	d.hasEnd = false
}

// Move records x as the latest end coordinate. Ignored while Idle.
func (d *Detector) Move(x float64) {
	if d.state != Tracking {
		return
	}
	d.endX = x
	d.hasEnd = true
}

// End finishes the gesture and classifies it.
// |start-end| must exceed the threshold; a positive distance advances.
func (d *Detector) End() Direction {
	if d.state != Tracking {
		return None
	}
	dir := None
	if d.hasEnd {
		distance := d.startX - d.endX
		switch {
		case distance > d.minDistance:
			dir = Advance
		case distance < -d.minDistance:
			dir = Retreat
		}
	}
	d.reset()
	return dir
}

// Leave abandons the gesture without emitting a direction.
func (d *Detector) Leave() {
	d.reset()
}

func (d *Detector) reset() {
	d.state = Idle
	d.startX = 0
	d.endX = 0
	d.hasEnd = false
}

// Classify runs a complete gesture from start to end through a fresh detector.
func Classify(minDistance, startX, endX float64) Direction {
	d := NewDetector(minDistance)
	d.Start(startX)
	d.Move(endX)
	return d.End()
}
