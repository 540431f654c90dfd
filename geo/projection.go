package geo

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid constants.
const (
	wgs84A = 6378137.0
	wgs84F = 1.0 / 298.257223563
	utmK0  = 0.9996
)

// Transformer converts between WGS84 coordinates and a local planar
// frame in metres, anchored so that the anchor point used to construct
// it maps to (0, 0). It implements a transverse-Mercator projection on
// the WGS84 ellipsoid for the UTM zone containing the anchor, per
// spec.md 4.1: "Use a transverse-Mercator projection on the WGS84
// ellipsoid for that zone. The transformer is stable and reused for all
// points in a single request to keep distortions consistent across the
// polygon."
//
// A single Transformer must not be used across an antimeridian-crossing
// request; zone/central-meridian selection is fixed at construction
// time from the anchor alone.
type Transformer struct {
	zone       int
	south      bool
	centralLon float64 // radians
	anchorX    float64 // UTM easting of the anchor, metres
	anchorY    float64 // UTM northing of the anchor, metres
}

// NewTransformer builds a Transformer anchored at the given WGS84
// coordinate. It returns an error for NaN input, matching spec.md 4.1's
// "NaN input or projection failure is a hard error."
func NewTransformer(anchor Coordinate) (*Transformer, error) {
	if math.IsNaN(anchor.Lon) || math.IsNaN(anchor.Lat) {
		return nil, fmt.Errorf("geo: NaN anchor coordinate")
	}
	if anchor.Lon < -180 || anchor.Lon > 180 || anchor.Lat < -90 || anchor.Lat > 90 {
		return nil, fmt.Errorf("geo: anchor coordinate %v out of WGS84 bounds", anchor)
	}

	zone := int(math.Floor((anchor.Lon+180)/6)) + 1
	south := anchor.Lat < 0
	centralLon := Radians(float64(zone)*6 - 183)

	t := &Transformer{zone: zone, south: south, centralLon: centralLon}
	x, y, err := t.forward(anchor.Lon, anchor.Lat)
	if err != nil {
		return nil, err
	}
	t.anchorX, t.anchorY = x, y
	return t, nil
}

// Zone returns the UTM zone number the transformer was anchored in.
func (t *Transformer) Zone() int { return t.zone }

// ToLocal projects a WGS84 coordinate into the local planar frame, in
// metres, relative to the anchor.
func (t *Transformer) ToLocal(c Coordinate) (LocalPoint, error) {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) {
		return LocalPoint{}, fmt.Errorf("geo: NaN coordinate")
	}
	x, y, err := t.forward(c.Lon, c.Lat)
	if err != nil {
		return LocalPoint{}, err
	}
	return LocalPoint{X: x - t.anchorX, Y: y - t.anchorY}, nil
}

// ToWGS84 converts a local planar point back to WGS84.
func (t *Transformer) ToWGS84(p LocalPoint) (Coordinate, error) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return Coordinate{}, fmt.Errorf("geo: NaN local point")
	}
	return t.inverse(p.X+t.anchorX, p.Y+t.anchorY), nil
}

// forward computes the standard (false-easting 500000, UTM k0) easting
// and northing for a WGS84 coordinate, per the Snyder ellipsoidal
// transverse-Mercator forward equations.
func (t *Transformer) forward(lonDeg, latDeg float64) (easting, northing float64, err error) {
	e2 := wgs84F * (2 - wgs84F)
	ep2 := e2 / (1 - e2)

	lat := Radians(latDeg)
	lon := Radians(lonDeg)

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	tanLat := math.Tan(lat)

	n := wgs84A / math.Sqrt(1-e2*sinLat*sinLat)
	tT := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lon - t.centralLon)

	m := wgs84A * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*lat -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*lat) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*lat) -
		(35*e2*e2*e2/3072)*math.Sin(6*lat))

	easting = utmK0*n*(a+(1-tT+c)*a*a*a/6+
		(5-18*tT+tT*tT+72*c-58*ep2)*a*a*a*a*a/120) + 500000

	northing = utmK0 * (m + n*tanLat*(a*a/2+
		(5-tT+9*c+4*c*c)*a*a*a*a/24+
		(61-58*tT+tT*tT+600*c-330*ep2)*a*a*a*a*a*a/720))

	if latDeg < 0 {
		northing += 10000000
	}
	return easting, northing, nil
}

// inverse recovers a WGS84 coordinate from standard UTM easting/northing
// via the Snyder ellipsoidal inverse equations.
func (t *Transformer) inverse(easting, northing float64) Coordinate {
	e2 := wgs84F * (2 - wgs84F)
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	y := northing
	if t.south {
		y -= 10000000
	}

	m := y / utmK0
	mu := m / (wgs84A * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	n1 := wgs84A / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	t1 := tanPhi1 * tanPhi1
	c1 := ep2 * cosPhi1 * cosPhi1
	r1 := wgs84A * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := (easting - 500000) / (n1 * utmK0)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := t.centralLon + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120)/cosPhi1

	return Coordinate{Lon: Degrees(lon), Lat: Degrees(lat)}
}
