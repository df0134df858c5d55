package bench

type EventKind int

const (
	// MeasurementStarted fires once the warm-up boundary is passed and the
	// timing window opens.
	MeasurementStarted EventKind = iota
	// Progress fires each time the message count crosses a 10% boundary of a
	// one-way run of more than 100 messages.
	Progress
)

type Event struct {
	Kind       EventKind
	Role       Role
	Discipline Discipline
	Done       int
	Total      int
	Percent    int
}

// Observer receives cosmetic progress notifications. It never affects the
// measurement.
type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}

var Discard Observer = ObserverFunc(func(Event) {})
