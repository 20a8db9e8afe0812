package terrain

import "math"

// valueLattice is a deterministic hash-based value-noise lattice: each
// integer lattice point gets a pseudo-random value purely as a function of
// (seed, lattice_x, lattice_z), with no dependence on generation order or
// platform. Smooth interpolation between lattice points is what gives the
// heightmap its required boundary continuity: two adjacent
// chunks share the lattice points straddling their border, so their
// interpolated height agrees exactly at x=15/x=0 (and symmetrically for z).
type valueLattice struct {
	seed uint64
	cell float64 // world units per lattice cell
}

func newValueLattice(seed uint64, cellSize float64) valueLattice {
	return valueLattice{seed: seed, cell: cellSize}
}

func (v valueLattice) latticeValue(lx, lz int64) float64 {
	h := uint64(lx)*0x9E3779B97F4A7C15 ^ uint64(lz)*0xC2B2AE3D27D4EB4F ^ v.seed*0x165667B19E3779F9
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	// Map to [0,1).
	return float64(h>>11) / float64(1<<53)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Sample returns a continuous value in [0,1) at world coordinates (x, z),
// bilinearly interpolated between the surrounding lattice points.
func (v valueLattice) Sample(x, z float64) float64 {
	gx, gz := x/v.cell, z/v.cell
	x0, z0 := math.Floor(gx), math.Floor(gz)
	tx, tz := smoothstep(gx-x0), smoothstep(gz-z0)
	ix0, iz0 := int64(x0), int64(z0)

	v00 := v.latticeValue(ix0, iz0)
	v10 := v.latticeValue(ix0+1, iz0)
	v01 := v.latticeValue(ix0, iz0+1)
	v11 := v.latticeValue(ix0+1, iz0+1)

	top := lerp(v00, v10, tx)
	bot := lerp(v01, v11, tx)
	return lerp(top, bot, tz)
}

// Octave combines several value lattices at increasing frequency and
// decreasing amplitude (fractal/fBm noise), still perfectly continuous
// across chunk boundaries because each underlying lattice is.
type Octave struct {
	layers []valueLattice
	amps   []float64
}

// NewOctave builds an Octave with the given number of layers, starting cell
// size and persistence (amplitude falloff per octave).
func NewOctave(seed uint64, layers int, baseCell, persistence float64) Octave {
	o := Octave{}
	cell := baseCell
	amp := 1.0
	total := 0.0
	for i := 0; i < layers; i++ {
		o.layers = append(o.layers, newValueLattice(seed^uint64(i)*0xA24BAED4963EE407, cell))
		o.amps = append(o.amps, amp)
		total += amp
		cell /= 2
		amp *= persistence
	}
	for i := range o.amps {
		o.amps[i] /= total
	}
	return o
}

// Sample returns the combined noise value in [0,1) at (x, z).
func (o Octave) Sample(x, z float64) float64 {
	var sum float64
	for i, l := range o.layers {
		sum += l.Sample(x, z) * o.amps[i]
	}
	return sum
}
