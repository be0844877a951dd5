package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// SCENE ANCHORS
// Scenes may be pinned on the tour map. Anchors are entered as WGS84
// longitude/latitude and always projected to EPSG:3857 for the map layer.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// LonLatFromString parses a "long,lat" string into WGS84 degrees.
func LonLatFromString(coords string) (lon, lat float64, err error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return 0, 0, ErrInvalidCoordinates
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoordinates
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, ErrInvalidCoordinates
	}
	return lon, lat, nil
}

// AnchorFromLonLat projects a WGS84 longitude/latitude to a Web Mercator point.
func AnchorFromLonLat(longitude, latitude float64) (geom.Point, error) {
	if longitude < -180 || longitude > 180 || latitude < -90 || latitude > 90 {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Type: geom.DimXY,
		},
	)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return point, nil
}

// AnchorWKT renders the projected anchor as WKT for map exports.
func AnchorWKT(longitude, latitude float64) (string, error) {
	point, err := AnchorFromLonLat(longitude, latitude)
	if err != nil {
		return "", err
	}
	return point.AsText(), nil
}
