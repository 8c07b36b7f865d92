// Package physics provides distance checks and the hit / near-miss bands.
package physics

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Band classifies how close two bodies are.
type Band int

const (
	BandClear    Band = iota // Outside the near-miss radius
	BandNearMiss             // Strictly between the collision and near-miss radii
	BandHit                  // Inside the collision radius
)

func (b Band) String() string {
	switch b {
	case BandHit:
		return "hit"
	case BandNearMiss:
		return "near-miss"
	default:
		return "clear"
	}
}

// Thresholds holds the collision and near-miss radii for a pair of bodies.
type Thresholds struct {
	Collision float64
	NearMiss  float64
}

// NewThresholds scales the summed radii r1+r2 by the two band factors.
func NewThresholds(r1, r2, collisionFactor, nearMissFactor float64) Thresholds {
	sum := r1 + r2
	return Thresholds{
		Collision: sum * collisionFactor,
		NearMiss:  sum * nearMissFactor,
	}
}

// Between classifies the distance between two centres. Both bounds are strict:
// a distance exactly on the collision radius is neither a hit nor a near miss.
func (t Thresholds) Between(x1, y1, x2, y2 float64) Band {
	d2 := DistanceSquared(x1, y1, x2, y2)
	switch {
	case d2 < t.Collision*t.Collision:
		return BandHit
	case d2 > t.Collision*t.Collision && d2 < t.NearMiss*t.NearMiss:
		return BandNearMiss
	default:
		return BandClear
	}
}
