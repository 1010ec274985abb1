package service

import (
	"math"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

const earthRadiusMeters = 6371000

// haversine returns the great-circle distance in meters. A flat-earth
// approximation drifts too far once radii go past a few hundred meters, so
// circle containment always goes through this.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func distanceMeters(a, b domain.Position) float64 {
	return haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// pointInPolygon runs an even-odd ray cast over the ring. Vertices are
// projected onto an equirectangular plane anchored at p (x scaled by
// cos(lat)), which holds up at city scale; large rings or high latitudes
// accumulate error. Points on an edge count as inside.
func pointInPolygon(p domain.Position, ring []domain.Position) bool {
	if len(ring) < 3 {
		return false
	}

	cosLat := math.Cos(toRad(p.Lat))
	xs := make([]float64, len(ring))
	ys := make([]float64, len(ring))
	for i, v := range ring {
		xs[i] = (v.Lon - p.Lon) * cosLat
		ys[i] = v.Lat - p.Lat
	}

	// The test point projects to the origin.
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i, j = i+1, i {
		if onSegment(xs[i], ys[i], xs[j], ys[j]) {
			return true
		}
		if (ys[i] > 0) != (ys[j] > 0) {
			xCross := xs[i] + (0-ys[i])*(xs[j]-xs[i])/(ys[j]-ys[i])
			if xCross > 0 {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether the origin lies on the segment (x1,y1)-(x2,y2).
const segEpsilon = 1e-12

func onSegment(x1, y1, x2, y2 float64) bool {
	cross := x1*y2 - x2*y1
	if math.Abs(cross) > segEpsilon {
		return false
	}
	dot := x1*x2 + y1*y2
	return dot <= segEpsilon
}
