// Package source implements one-shot initial-condition generators: Okada
// fault deformation and prismatic ("Kaba") source regions. These are thin
// collaborators invoked once before the solver starts; they populate an
// initial eta field and hand it to the core, never touching the stepping
// loop itself.
package source

import "math"

const (
	deg2rad = math.Pi / 180
	ecc2    = 0.00669438
	ecc4    = ecc2 * ecc2
	ecc6    = ecc4 * ecc2
	eqRad   = 6378137.0
)

// OkadaFault describes a rectangular dislocation source in the Okada
// (1985) formulation, with the fault's origin shifted by the Go
// convention of indexed fields rather than the original's flat parameter
// list.
type OkadaFault struct {
	Length, Width   float64 // fault plane dimensions, m
	Strike          float64 // degrees
	Dip, Rake       float64 // degrees
	Slip            float64 // m
	TopDepth        float64 // m, depth to the fault's top edge
	EpicenterX, EpicenterY float64 // fault origin, projected or Cartesian
}

// Deform computes the vertical seafloor deformation on an nx*ny grid
// with the given geometry, writing into z (row-major, length nx*ny).
// When isGeographic is true, coordinates are first projected through a
// transverse-Mercator projection centered on the fault, matching the
// original's vtm/tm pair.
func (f *OkadaFault) Deform(nx, ny int, xMin, yMin, xInc, yInc float64, isGeographic bool, z []float64) {
	halfLength := f.Length / 2
	dipRad := f.Dip * deg2rad
	h1 := f.TopDepth / math.Sin(dipRad)
	h2 := h1 + f.Width
	ds := -f.Slip * math.Cos(f.Rake*deg2rad)
	dd := f.Slip * math.Sin(f.Rake*deg2rad)
	sinTh := math.Sin(f.Strike * deg2rad)
	cosTh := math.Cos(f.Strike * deg2rad)
	tanDip := math.Tan(dipRad)

	var proj *tmProjection
	lon0 := f.EpicenterX + xInc/2
	if isGeographic {
		proj = newTMProjection(f.EpicenterY + yInc/2)
	}

	k := 0
	for i := 0; i < ny; i++ {
		yy := yMin + yInc*float64(i)
		for j := 0; j < nx; j++ {
			xx := xMin + xInc*float64(j)

			var rx, ry float64
			if isGeographic {
				rx, ry = proj.forward(xx, yy, lon0)
			} else {
				rx = xx - f.EpicenterX
				ry = yy - f.EpicenterY
			}

			x1 := rx*sinTh + ry*cosTh - halfLength
			x2 := rx*cosTh - ry*sinTh + f.TopDepth/tanDip

			uS := (uscal(x1, x2, halfLength, h2, dipRad) -
				uscal(x1, x2, halfLength, h1, dipRad) -
				uscal(x1, x2, -halfLength, h2, dipRad) +
				uscal(x1, x2, -halfLength, h1, dipRad)) * ds / (12 * math.Pi)

			uD := (udcal(x1, x2, halfLength, h2, dipRad) -
				udcal(x1, x2, halfLength, h1, dipRad) -
				udcal(x1, x2, -halfLength, h2, dipRad) +
				udcal(x1, x2, -halfLength, h1, dipRad)) * dd / (12 * math.Pi)

			z[k] = uS + uD
			k++
		}
	}
}

// uscal computes the vertical displacement contribution from the strike
// (along-fault) slip component at (x1,x2,x3=0) relative to one fault
// corner (c, cc) at dip dp.
func uscal(x1, x2, c, cc, dp float64) float64 {
	const x3 = 0.0
	sn, cs := math.Sin(dp), math.Cos(dp)
	c1, c2, c3 := c, cc*cs, cc*sn
	r := math.Sqrt(sq(x1-c1) + sq(x2-c2) + sq(x3-c3))
	q := math.Sqrt(sq(x1-c1) + sq(x2-c2) + sq(x3+c3))
	r2 := x2*sn - x3*cs
	r3 := x2*cs + x3*sn
	q2 := x2*sn + x3*cs
	q3 := -x2*cs + x3*sn

	a1 := math.Log(r + r3 - cc)
	a2 := math.Log(q + q3 + cc)
	a3 := math.Log(q + x3 + c3)
	tanDp := math.Tan(dp)
	b1 := 1 + 3*tanDp*tanDp
	b2 := 3 * tanDp / cs
	b3 := 2 * r2 * sn
	b4 := q2 + x2*sn
	b5 := 2 * r2 * r2 * cs
	b6 := r * (r + r3 - cc)
	b7 := 4 * q2 * x3 * sn * sn
	b8 := 2 * (q2 + x2*sn) * (x3 + q3*sn)
	b9 := q * (q + q3 + cc)
	b10 := 4 * q2 * x3 * sn
	b11 := (x3 + c3) - q3*sn
	b12 := 4 * q2 * q2 * q3 * x3 * cs * sn
	b13 := 2*q + q3 + cc
	b14 := math.Pow(q, 3) * sq(q+q3+cc)

	return cs*(a1+b1*a2-b2*a3) + b3/r + 2*sn*b4/q - b5/b6 + (b7-b8)/b9 + b10*b11/math.Pow(q, 3) - b12*b13/b14
}

// udcal computes the vertical displacement contribution from the dip-slip
// component, the Okada analogue of uscal for the orthogonal fault motion.
func udcal(x1, x2, c, cc, dp float64) float64 {
	const x3 = 0.0
	sn, cs := math.Sin(dp), math.Cos(dp)
	c1, c2, c3 := c, cc*cs, cc*sn
	r := math.Sqrt(sq(x1-c1) + sq(x2-c2) + sq(x3-c3))
	q := math.Sqrt(sq(x1-c1) + sq(x2-c2) + sq(x3+c3))
	r2 := x2*sn - x3*cs
	r3 := x2*cs + x3*sn
	q2 := x2*sn + x3*cs
	q3 := -x2*cs + x3*sn

	a1 := math.Log(r + x1 - c1)
	a2 := math.Log(q + x1 - c1)
	b1 := q * (q + x1 - c1)
	b2 := r * (r + x1 - c1)
	b3 := q * (q + q3 + cc)
	d1, d2, d3 := x1-c1, x2-c2, x3-c3
	d4, d5, d6 := x3+c3, r3-cc, q3+cc

	t1 := math.Atan2(d1*d2, (sqrtH(q2, d6)+d4)*(q+sqrtH(q2, d6)))
	t2 := math.Atan2(d1*d5, r2*r)
	t3 := math.Atan2(d1*d6, q2*q)

	f := sn*(d2*(2*d3/b2+4*d3/b1-4*c3*x3*d4*(2*q+d1)/(b1*b1*q))-6*t1+3*t2-6*t3) +
		cs*(a1-a2-2*d3*d3/b2-4*(d4*d4-c3*x3)/b1-4*c3*x3*d4*d4*(2*q+x1-c1)/(b1*b1*q)) +
		6*x3*(cs*sn*(2*d6/b1+d1/b3)-q2*(sn*sn-cs*cs)/b1)
	return f
}

func sqrtH(q2, d6 float64) float64 { return math.Sqrt(q2*q2 + d6*d6) }
func sq(v float64) float64         { return v * v }

// tmProjection is a minimal transverse-Mercator projection centered on
// the fault's latitude, grounded on the original's vtm/tm pair (itself
// an extract of GMT_vtm).
type tmProjection struct {
	c1, c2, c3, c4, e2, m0 float64
}

func newTMProjection(latDeg float64) *tmProjection {
	lat0 := latDeg * deg2rad
	lat2 := 2 * lat0
	s2, c2v := math.Sin(lat2), math.Cos(lat2)

	p := &tmProjection{
		c1: 1 - ecc2/4 - 3*ecc4/64 - 5*ecc6/256,
		c2: -(3*ecc2/8 + 3*ecc4/32 + 25*ecc6/768),
		c3: 15*ecc4/128 + 45*ecc6/512,
		c4: -35 * ecc6 / 768,
		e2: ecc2 / (1 - ecc2),
	}
	p.m0 = eqRad * (p.c1*lat0 + s2*(p.c2+c2v*(p.c3+c2v*p.c4)))
	return p
}

func (p *tmProjection) forward(lon, lat, centralMeridian float64) (x, y float64) {
	latR := lat * deg2rad
	dlon := (lon - centralMeridian) * deg2rad
	sinLat, cosLat := math.Sin(latR), math.Cos(latR)

	n := eqRad / math.Sqrt(1-ecc2*sinLat*sinLat)
	t := sinLat * sinLat / (cosLat * cosLat)
	c := p.e2 * cosLat * cosLat
	a := dlon * cosLat

	m := eqRad * (p.c1*latR + math.Sin(2*latR)*(p.c2+math.Cos(2*latR)*(p.c3+math.Cos(2*latR)*p.c4)))

	x = n * (a + (1-t+c)*a*a*a/6)
	y = m - p.m0 + n*sinLat/cosLat*(a*a/2+(5-t+9*c+4*c*c)*a*a*a*a/24)
	return x, y
}
