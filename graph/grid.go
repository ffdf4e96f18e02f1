package graph

import "math"

// metersPerDegreeLat is close enough for sizing query bounding boxes.
const metersPerDegreeLat = 111320.0

type cellKey struct {
	row int
	col int
}

type gridEntry[T any] struct {
	lat float64
	lon float64
	val T
}

// grid is a fixed-cell spatial index over points on the globe. Cells are
// addressed in whole degrees divided by cellDeg; radius queries scan the
// cells covered by the query bounding box and filter by haversine distance.
type grid[T any] struct {
	cellDeg float64
	cells   map[cellKey][]gridEntry[T]
}

func newGrid[T any](cellDeg float64) *grid[T] {
	if cellDeg <= 0 {
		cellDeg = 0.005
	}
	return &grid[T]{cellDeg: cellDeg, cells: map[cellKey][]gridEntry[T]{}}
}

func (g *grid[T]) key(lat, lon float64) cellKey {
	return cellKey{
		row: int(math.Floor(lat / g.cellDeg)),
		col: int(math.Floor(lon / g.cellDeg)),
	}
}

func (g *grid[T]) insert(lat, lon float64, v T) {
	k := g.key(lat, lon)
	g.cells[k] = append(g.cells[k], gridEntry[T]{lat: lat, lon: lon, val: v})
}

// near visits every entry within radiusM meters of (lat, lon), passing the
// haversine distance to the visitor. Visit order is unspecified.
func (g *grid[T]) near(lat, lon, radiusM float64, visit func(v T, distM float64)) {
	dLat := radiusM / metersPerDegreeLat
	cosLat := math.Cos(toRadians(lat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := radiusM / (metersPerDegreeLat * cosLat)

	lo := g.key(lat-dLat, lon-dLon)
	hi := g.key(lat+dLat, lon+dLon)
	for row := lo.row; row <= hi.row; row++ {
		for col := lo.col; col <= hi.col; col++ {
			for _, e := range g.cells[cellKey{row: row, col: col}] {
				d := HaversineM(lat, lon, e.lat, e.lon)
				if d <= radiusM {
					visit(e.val, d)
				}
			}
		}
	}
}
