// Package geo converts between UTM grid coordinates and WGS84 longitude/latitude.
//
// Terrain coordinates are planar (easting, northing) in metres. Exporters that
// produce GeoJSON or OSM data need geographic coordinates, the OSM importer
// needs the opposite direction.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var ErrInvalidZone = errors.New("geo: UTM zone must be within 1..60")

// WGS84 ellipsoid
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only
)

var (
	e2  = flattening * (2 - flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
)

// Projection describes the coordinate system of a terrain.
// The zero value is a plain planar system without geographic reference.
type Projection struct {
	Zone  int  // UTM zone (1..60), 0 for planar
	South bool // southern hemisphere
}

// UTM returns the projection of the given zone.
func UTM(zone int, south bool) (Projection, error) {
	if zone < 1 || zone > 60 {
		return Projection{}, fmt.Errorf("%w: %d", ErrInvalidZone, zone)
	}
	return Projection{Zone: zone, South: south}, nil
}

func (p Projection) IsPlanar() bool { return p.Zone == 0 }

func (p Projection) String() string {
	if p.IsPlanar() {
		return "planar"
	}
	hemisphere := "N"
	if p.South {
		hemisphere = "S"
	}
	return fmt.Sprintf("UTM %d%s", p.Zone, hemisphere)
}

// ZoneOf returns the UTM zone containing the longitude (without the Norway/Svalbard exceptions).
func ZoneOf(lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}
	return zone
}

func (p Projection) centralMeridian() float64 {
	return degToRad(float64(p.Zone-1)*6 - 180 + 3)
}

// ToWGS84 converts a planar point (easting, northing) to (lon, lat) in degrees.
// Planar projections return the point unchanged.
func (p Projection) ToWGS84(pt orb.Point) orb.Point {
	if p.IsPlanar() {
		return pt
	}
	x := pt[0] - falseEasting
	y := pt[1]
	if p.South {
		y -= falseNorthing
	}

	m := y / scaleFactor
	mu := m / (semiMajorAxis * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1, tan1 := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := semiMajorAxis / math.Sqrt(1-e2*sin1*sin1)
	r1 := semiMajorAxis * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := x / (n1 * scaleFactor)

	lat := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := p.centralMeridian() + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

	return orb.Point{radToDeg(lon), radToDeg(lat)}
}

// FromWGS84 converts (lon, lat) in degrees to a planar point (easting, northing).
// Planar projections return the point unchanged.
func (p Projection) FromWGS84(pt orb.Point) orb.Point {
	if p.IsPlanar() {
		return pt
	}
	phi := degToRad(pt[1])
	lambda := degToRad(pt[0])

	sinPhi, cosPhi, tanPhi := math.Sin(phi), math.Cos(phi), math.Tan(phi)
	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - p.centralMeridian())
	m := semiMajorAxis * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting := scaleFactor*n*(a+
		(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + falseEasting
	northing := scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	if p.South {
		northing += falseNorthing
	}
	return orb.Point{easting, northing}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }
