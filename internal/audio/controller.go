package audio

import "time"

// State is the playback phase of the track.
type State int

const (
	FadingIn State = iota
	Playing
	FadingOut
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case FadingIn:
		return "fading_in"
	case Playing:
		return "playing"
	case FadingOut:
		return "fading_out"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// EndEpsilon is how close to the end of the track playback counts as finished.
const EndEpsilon = 5 * time.Millisecond

// Output is the device side of a playing track.
type Output interface {
	Position() time.Duration
	Duration() time.Duration
	SetVolume(v float64)
	SetPaused(paused bool)
	Restart() error
}

// Controller runs the fade/pause/end state machine on top of an Output.
// It is driven once per frame from the frame loop.
type Controller struct {
	out      Output
	state    State
	volume   float64
	fadeStep float64
}

// NewController starts the track silent and fading in.
func NewController(out Output, fadeStep float64) *Controller {
	out.SetVolume(0)
	return &Controller{
		out:      out,
		state:    FadingIn,
		fadeStep: fadeStep,
	}
}

func (c *Controller) State() State            { return c.state }
func (c *Controller) Volume() float64         { return c.volume }
func (c *Controller) Position() time.Duration { return c.out.Position() }
func (c *Controller) Duration() time.Duration { return c.out.Duration() }

// Advancing reports whether the track is audibly progressing.
func (c *Controller) Advancing() bool {
	return c.state == Playing || c.state == FadingIn
}

// FadeOut starts fading toward pause. It has no effect once paused or ended.
func (c *Controller) FadeOut() {
	switch c.state {
	case Playing, FadingIn:
		c.state = FadingOut
	}
}

// FadeIn resumes a paused or fading track, or restarts a finished one.
func (c *Controller) FadeIn() error {
	switch c.state {
	case Paused:
		c.out.SetPaused(false)
	case Ended:
		if err := c.out.Restart(); err != nil {
			return err
		}
		c.volume = 0
	case Playing, FadingIn:
		return nil
	}
	c.state = FadingIn
	return nil
}

// Update advances the fade by one frame, pushes the resulting gain to the
// device and detects the end of the track.
func (c *Controller) Update() {
	switch c.state {
	case FadingIn:
		c.volume = min(1, c.volume+c.fadeStep)
		if c.volume >= 1 {
			c.state = Playing
		}
		c.out.SetVolume(c.volume)
	case Playing:
		c.out.SetVolume(c.volume)
	case FadingOut:
		c.volume = max(0, c.volume-c.fadeStep)
		c.out.SetVolume(c.volume)
		if c.volume <= 0 {
			c.out.SetPaused(true)
			c.state = Paused
		}
	case Paused, Ended:
		c.out.SetVolume(0)
	}

	if c.state != Ended && c.out.Position() >= c.out.Duration()-EndEpsilon {
		c.state = Ended
	}
}
