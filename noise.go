package softrast

import "github.com/chewxy/math32"

// hash3 maps an integer lattice point to a pseudo random value in [0,1).
func hash3(x, y, z int32, seed uint32) float32 {
	h := seed ^ 0x9e3779b9
	h ^= uint32(x) * 0x85ebca6b
	h = (h << 13) | (h >> 19)
	h ^= uint32(y) * 0xc2b2ae35
	h = (h << 17) | (h >> 15)
	h ^= uint32(z) * 0x27d4eb2f
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return float32(h>>8) / (1 << 24)
}

// valueNoise returns smoothly interpolated lattice noise in [0,1).
func valueNoise(x, y, z float32, seed uint32) float32 {
	fx, fy, fz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	ix, iy, iz := int32(fx), int32(fy), int32(fz)
	tx, ty, tz := smooth(x-fx), smooth(y-fy), smooth(z-fz)

	c000 := hash3(ix, iy, iz, seed)
	c100 := hash3(ix+1, iy, iz, seed)
	c010 := hash3(ix, iy+1, iz, seed)
	c110 := hash3(ix+1, iy+1, iz, seed)
	c001 := hash3(ix, iy, iz+1, seed)
	c101 := hash3(ix+1, iy, iz+1, seed)
	c011 := hash3(ix, iy+1, iz+1, seed)
	c111 := hash3(ix+1, iy+1, iz+1, seed)

	x00 := mixf(c000, c100, tx)
	x10 := mixf(c010, c110, tx)
	x01 := mixf(c001, c101, tx)
	x11 := mixf(c011, c111, tx)
	return mixf(mixf(x00, x10, ty), mixf(x01, x11, ty), tz)
}

// fbm sums octaves of value noise, each at double frequency and half amplitude.
// The result is normalized to [0,1).
func fbm(x, y, z float32, seed uint32, octaves int) float32 {
	var sum, norm float32
	amp := float32(1)
	for i := 0; i < octaves; i++ {
		sum += amp * valueNoise(x, y, z, seed+uint32(i)*101)
		norm += amp
		amp *= 0.5
		x, y, z = x*2, y*2, z*2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func smooth(t float32) float32 { return t * t * (3 - 2*t) }

func smoothstep(e0, e1, x float32) float32 {
	return smooth(clampf((x-e0)/(e1-e0), 0, 1))
}

func mixf(x, y, a float32) float32 {
	return x*(1-a) + y*a
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}
