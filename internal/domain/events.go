package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDatasetLoaded   EventType = "DatasetLoaded"
	EventQuerySettled    EventType = "QuerySettled"
	EventSelectionLocked EventType = "SelectionLocked"
	EventSelectionClear  EventType = "SelectionCleared"
	EventRegionToggled   EventType = "RegionToggled"
	EventFiltersCleared  EventType = "FiltersCleared"
	EventFocusRequested  EventType = "FocusRequested"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DatasetLoadedEvent is emitted once the country list has been normalized
type DatasetLoadedEvent struct {
	Source    string
	Countries int
	Dropped   int // raw records removed by dedup or missing codes
}

func (e DatasetLoadedEvent) Type() EventType { return EventDatasetLoaded }

// QuerySettledEvent is emitted when the debounced query changes
type QuerySettledEvent struct {
	Query   string
	Results int
}

func (e QuerySettledEvent) Type() EventType { return EventQuerySettled }

// SelectionLockedEvent is emitted when a code becomes the locked selection
type SelectionLockedEvent struct {
	Code     string
	Previous string // empty when coming from the unselected state
}

func (e SelectionLockedEvent) Type() EventType { return EventSelectionLocked }

// SelectionClearedEvent is emitted when the lock is released
type SelectionClearedEvent struct {
	Code   string
	Reason string
}

func (e SelectionClearedEvent) Type() EventType { return EventSelectionClear }

// RegionToggledEvent is emitted when a region chip is toggled
type RegionToggledEvent struct {
	Region string
	Active bool
	Codes  int
}

func (e RegionToggledEvent) Type() EventType { return EventRegionToggled }

// FiltersClearedEvent is emitted by the "clear filters" action
type FiltersClearedEvent struct{}

func (e FiltersClearedEvent) Type() EventType { return EventFiltersCleared }

// FocusRequestedEvent is emitted every time the map is asked to recenter,
// including repeated requests for the same code
type FocusRequestedEvent struct {
	Code string
	Seq  uint64
}

func (e FocusRequestedEvent) Type() EventType { return EventFocusRequested }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
