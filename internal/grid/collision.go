package grid

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect es un rectángulo de celdas inclusivo.
type Rect struct {
	Start Point
	End   Point
}

func (r Rect) Width() int  { return r.End.X - r.Start.X + 1 }
func (r Rect) Height() int { return r.End.Y - r.Start.Y + 1 }

func Overlaps(a, b Rect) bool {
	return a.Start.X <= b.End.X && a.End.X >= b.Start.X &&
		a.Start.Y <= b.End.Y && a.End.Y >= b.Start.Y
}

// collides indica si r se superpone con alguna zona distinta de ignore.
func collides(zones []Zone, r Rect, ignore *ZoneID) bool {
	for _, z := range zones {
		if ignore != nil && z.ID == *ignore {
			continue
		}
		if Overlaps(r, z.Rect()) {
			return true
		}
	}
	return false
}
