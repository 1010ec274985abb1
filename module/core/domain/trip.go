package domain

import "time"

type RouteEventKind string

const (
	EventDeparture      RouteEventKind = "departure"
	EventArrival        RouteEventKind = "arrival"
	EventStop           RouteEventKind = "stop"
	EventSpeedViolation RouteEventKind = "speed_violation"
	EventGeofenceEntry  RouteEventKind = "geofence_entry"
	EventGeofenceExit   RouteEventKind = "geofence_exit"
)

// RouteEvent is a discrete occurrence within a trip. Each kind is its own
// type carrying only the fields relevant to it.
type RouteEvent interface {
	Kind() RouteEventKind
	At() time.Time
	Where() Position
}

type DepartureEvent struct {
	Position  Position
	Timestamp time.Time
}

func (e DepartureEvent) Kind() RouteEventKind { return EventDeparture }
func (e DepartureEvent) At() time.Time        { return e.Timestamp }
func (e DepartureEvent) Where() Position      { return e.Position }

type ArrivalEvent struct {
	Position  Position
	Timestamp time.Time
}

func (e ArrivalEvent) Kind() RouteEventKind { return EventArrival }
func (e ArrivalEvent) At() time.Time        { return e.Timestamp }
func (e ArrivalEvent) Where() Position      { return e.Position }

// StopEvent records a pause within a trip. Timestamp is when the vehicle
// came to rest; Duration covers the whole idle run.
type StopEvent struct {
	Position  Position
	Timestamp time.Time
	Duration  time.Duration
}

func (e StopEvent) Kind() RouteEventKind { return EventStop }
func (e StopEvent) At() time.Time        { return e.Timestamp }
func (e StopEvent) Where() Position      { return e.Position }

type SpeedViolationEvent struct {
	Position   Position
	Timestamp  time.Time
	Speed      float64 // peak speed during the episode
	SpeedLimit float64
	Duration   time.Duration
}

func (e SpeedViolationEvent) Kind() RouteEventKind { return EventSpeedViolation }
func (e SpeedViolationEvent) At() time.Time        { return e.Timestamp }
func (e SpeedViolationEvent) Where() Position      { return e.Position }

type GeofenceEntryEvent struct {
	Position     Position
	Timestamp    time.Time
	GeofenceName string
}

func (e GeofenceEntryEvent) Kind() RouteEventKind { return EventGeofenceEntry }
func (e GeofenceEntryEvent) At() time.Time        { return e.Timestamp }
func (e GeofenceEntryEvent) Where() Position      { return e.Position }

type GeofenceExitEvent struct {
	Position     Position
	Timestamp    time.Time
	GeofenceName string
}

func (e GeofenceExitEvent) Kind() RouteEventKind { return EventGeofenceExit }
func (e GeofenceExitEvent) At() time.Time        { return e.Timestamp }
func (e GeofenceExitEvent) Where() Position      { return e.Position }

// Trip is one driving episode, departure to arrival. Points are strictly
// increasing in timestamp and never overlap another trip of the same
// vehicle. TotalDistance is meters, speeds km/h. EndTime stays zero while
// the trip is open.
type Trip struct {
	ID            string
	VehicleID     string
	StartTime     time.Time
	EndTime       time.Time
	Points        []LocationSample
	Events        []RouteEvent
	TotalDistance float64
	TravelTime    time.Duration
	StoppedTime   time.Duration
	AverageSpeed  float64
	MaxSpeed      float64
	StopsCount    int
}

// Open reports whether the trip has not been closed yet.
func (t *Trip) Open() bool { return t.EndTime.IsZero() }

// MergeEvent inserts ev keeping Events ordered by timestamp, stable for
// equal timestamps.
func (t *Trip) MergeEvent(ev RouteEvent) {
	i := len(t.Events)
	for i > 0 && t.Events[i-1].At().After(ev.At()) {
		i--
	}
	t.Events = append(t.Events, nil)
	copy(t.Events[i+1:], t.Events[i:])
	t.Events[i] = ev
}
