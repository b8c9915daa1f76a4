package viz

import (
	"math"
)

// Scene draws one trampoline jump onto a canvas. World coordinates are
// heights in meters above the lowest point of the bounce; the scene
// scales them so the full envelope (0 .. ceiling) fills the canvas.
type Scene struct {
	MatDepth float64 // undeformed mat surface height
	Ceiling  float64 // top of the drawn range, usually the drop height plus headroom

	trail []struct{ x, y int }
}

func NewScene(matDepth, dropHeight float64) *Scene {
	return &Scene{
		MatDepth: matDepth,
		Ceiling:  dropHeight * 1.15,
	}
}

// toPixel maps a world height to a canvas row, top row zero.
func (s *Scene) toPixel(c *Canvas, y float64) int {
	if s.Ceiling <= 0 {
		return 0
	}
	frac := y / s.Ceiling
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	// leave two pixel rows of margin at the top
	return 2 + int((1-frac)*float64(c.PixelHeight()-8))
}

// Draw renders the frame for the jumper at height y. The mat sags into
// a catenary-ish dip under the jumper while in contact.
func (s *Scene) Draw(c *Canvas, y float64) {
	c.Clear()

	cw := c.PixelWidth()
	centerX := cw / 2

	groundY := s.toPixel(c, 0)
	matY := s.toPixel(c, s.MatDepth)

	// frame posts
	c.DrawLine(centerX-cw/3, groundY+4, centerX-cw/3, matY)
	c.DrawLine(centerX+cw/3, groundY+4, centerX+cw/3, matY)
	c.DrawLine(centerX-cw/3-6, groundY+4, centerX+cw/3+6, groundY+4)

	// mat: flat in flight, dipped under the jumper in contact
	sag := 0.0
	if y < s.MatDepth {
		sag = s.MatDepth - y
	}
	left := centerX - cw/3
	right := centerX + cw/3
	span := float64(right - left)
	sagPix := float64(s.toPixel(c, s.MatDepth-sag) - matY)

	prevX, prevY := left, matY
	for px := left + 2; px <= right; px += 2 {
		u := float64(px-left) / span // 0..1 across the mat
		dip := sagPix * math.Pow(math.Sin(u*math.Pi), 2)
		py := matY + int(dip)
		c.DrawLine(prevX, prevY, px, py)
		prevX, prevY = px, py
	}

	// jumper, resting on the mat surface when in contact
	jy := s.toPixel(c, y)
	if y < s.MatDepth {
		jy = matY + int(sagPix)
	}
	s.trail = append(s.trail, struct{ x, y int }{centerX, jy - 4})
	if len(s.trail) > 90 {
		s.trail = s.trail[1:]
	}
	for _, pt := range s.trail {
		c.Set(pt.x, pt.y)
	}
	c.FillCircle(centerX, jy-4, 3)
}

// Reset clears the motion trail.
func (s *Scene) Reset() {
	s.trail = s.trail[:0]
}
