package realtime

import (
	"fmt"
	"os"
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// VehiclePosition is one observed vehicle state from a VehiclePositions feed.
type VehiclePosition struct {
	TripID    string
	RouteID   string
	VehicleID string
	Lat       float64
	Lon       float64
	Bearing   float64
	Timestamp int64
}

// ParseVehiclePositions decodes a GTFS-RT FeedMessage and extracts the
// vehicle entities that carry a trip id and a position.
func ParseVehiclePositions(b []byte) ([]VehiclePosition, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("decode vehicle positions: %w", err)
	}

	var out []VehiclePosition
	for _, e := range fm.Entity {
		v := e.Vehicle
		if v == nil || v.Position == nil || v.Trip == nil || v.Trip.TripId == nil {
			continue
		}
		vp := VehiclePosition{
			TripID: *v.Trip.TripId,
			Lat:    float64(v.Position.GetLatitude()),
			Lon:    float64(v.Position.GetLongitude()),
		}
		if v.Trip.RouteId != nil {
			vp.RouteID = *v.Trip.RouteId
		}
		if v.Vehicle != nil && v.Vehicle.Id != nil {
			vp.VehicleID = *v.Vehicle.Id
		}
		if v.Position.Bearing != nil {
			vp.Bearing = float64(*v.Position.Bearing)
		}
		if v.Timestamp != nil {
			vp.Timestamp = int64(*v.Timestamp)
		}
		out = append(out, vp)
	}
	return out, nil
}

// ReadVehiclePositions loads a VehiclePositions feed from a URL or a local
// protobuf file.
func ReadVehiclePositions(source string) ([]VehiclePosition, error) {
	var b []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		b, err = NewClient().Fetch(source)
	} else {
		b, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}
	return ParseVehiclePositions(b)
}

// ObservedStop is a vehicle position snapped to the nearest scheduled stop
// of its trip. CumulativeKM is the scheduled distance along the stop
// sequence up to the snapped stop, comparable with the scheduled
// trajectory points.
type ObservedStop struct {
	VehiclePosition
	StopID       string
	StopSequence int
	DistanceM    float64
	CumulativeKM float64
}

// SnapToStops matches each observed position to the closest stop of the
// trip's scheduled stop sequence. Positions whose trip is unknown to the
// static feed are dropped.
func SnapToStops(f *gtfs.Feed, positions []VehiclePosition) []ObservedStop {
	var out []ObservedStop
	for _, vp := range positions {
		stopTimes := f.StopTimesForTrip(vp.TripID)
		if len(stopTimes) == 0 {
			continue
		}

		best := ObservedStop{VehiclePosition: vp, DistanceM: -1}
		cum := 0.0
		var prev *gtfs.Stop
		for _, st := range stopTimes {
			stop := f.StopByID(st.StopID)
			if stop == nil {
				continue
			}
			if prev != nil {
				cum += utils.HaversineKM(prev.StopLat, prev.StopLon, stop.StopLat, stop.StopLon)
			}
			prev = stop
			d := utils.HaversineM(vp.Lat, vp.Lon, stop.StopLat, stop.StopLon)
			if best.DistanceM < 0 || d < best.DistanceM {
				best.StopID = st.StopID
				best.StopSequence = st.StopSequence
				best.DistanceM = d
				best.CumulativeKM = cum
			}
		}
		if best.DistanceM < 0 {
			continue
		}
		out = append(out, best)
	}
	return out
}
