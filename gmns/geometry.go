package gmns

import (
	"fmt"
)

// PointWKT renders a WKT POINT from lon/lat.
func PointWKT(lon, lat float64) string {
	return fmt.Sprintf("POINT (%s %s)", Ftoa(lon), Ftoa(lat))
}

// LineWKT renders a two-point WKT LINESTRING from lon/lat pairs.
func LineWKT(fromLon, fromLat, toLon, toLat float64) string {
	return fmt.Sprintf("LINESTRING (%s %s, %s %s)",
		Ftoa(fromLon), Ftoa(fromLat), Ftoa(toLon), Ftoa(toLat))
}
