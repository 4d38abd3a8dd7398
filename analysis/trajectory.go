package analysis

import (
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// TrajectoryPoint is one stop visit on a trip's space-time path.
type TrajectoryPoint struct {
	TripID            string
	DirectedServiceID string
	AgencyName        string
	StopSequence      int
	StopID            string
	ArrivalMin        int
	CumulativeKM      float64
}

// TripTrajectories expands every timetable trip into an ordered list of
// (arrival minute, cumulative distance) points, the scheduled counterpart
// of a vehicle position trace. When the feed carries a shape for a trip,
// distances follow the shape polyline; otherwise they are straight-line
// stop to stop. A nil feed always falls back to straight-line distances.
func TripTrajectories(tt *converter.Timetable, f *gtfs.Feed) []TrajectoryPoint {
	var points []TrajectoryPoint
	for _, serviceID := range tt.ServiceOrder {
		for _, tripID := range tt.ServiceTrips[serviceID] {
			recs := tt.TripRecords(tripID)
			shaped := shapeCumulative(f, tripID, recs)
			cum := 0.0
			for i, rec := range recs {
				if shaped != nil {
					cum = shaped[i]
				} else if i > 0 {
					prev := recs[i-1]
					cum += utils.HaversineKM(prev.StopLat, prev.StopLon, rec.StopLat, rec.StopLon)
				}
				points = append(points, TrajectoryPoint{
					TripID:            tripID,
					DirectedServiceID: serviceID,
					AgencyName:        rec.AgencyName,
					StopSequence:      rec.StopSequence,
					StopID:            rec.StopID,
					ArrivalMin:        rec.ArrivalMin,
					CumulativeKM:      cum,
				})
			}
		}
	}
	return points
}

// shapeCumulative returns the cumulative shape distance at each stop of a
// trip, snapping every stop to its nearest shape point. Returns nil when
// the trip has no usable shape.
func shapeCumulative(f *gtfs.Feed, tripID string, recs []converter.Record) []float64 {
	if f == nil {
		return nil
	}
	trip := f.TripByID(tripID)
	if trip == nil || trip.ShapeID == "" {
		return nil
	}
	pts := f.Shapes[trip.ShapeID]
	if len(pts) < 2 {
		return nil
	}

	along := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		along[i] = along[i-1] + utils.HaversineKM(pts[i-1].Lat, pts[i-1].Lon, pts[i].Lat, pts[i].Lon)
	}

	out := make([]float64, len(recs))
	for i, rec := range recs {
		best := 0
		bestKM := utils.HaversineKM(rec.StopLat, rec.StopLon, pts[0].Lat, pts[0].Lon)
		for j := 1; j < len(pts); j++ {
			if km := utils.HaversineKM(rec.StopLat, rec.StopLon, pts[j].Lat, pts[j].Lon); km < bestKM {
				best = j
				bestKM = km
			}
		}
		out[i] = along[best]
		// snapping can jump backwards on self-crossing shapes
		if i > 0 && out[i] < out[i-1] {
			out[i] = out[i-1]
		}
	}
	return out
}
