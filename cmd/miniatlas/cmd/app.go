package cmd

import (
	"go.uber.org/zap"

	"miniatlas/internal/config"
	"miniatlas/internal/dataset"
	"miniatlas/internal/domain"
	"miniatlas/internal/eventbus"
	"miniatlas/internal/geo"
)

// loadDataset loads the configured dataset and announces it on the bus
func loadDataset(cfg *config.Config, bus eventbus.EventBus) (*dataset.Dataset, error) {
	data, err := dataset.Load(cfg.Data.Countries)
	if err != nil {
		bus.Publish(domain.ErrorEvent{Message: "failed to load dataset", Err: err})
		return nil, err
	}
	bus.Publish(domain.DatasetLoadedEvent{
		Source:    data.Source,
		Countries: len(data.Countries),
		Dropped:   data.Dropped,
	})
	return data, nil
}

// loadAtlas loads the dataset and joins it with the world geometry
func loadAtlas(cfg *config.Config, bus eventbus.EventBus) (*dataset.Dataset, *geo.Atlas, error) {
	data, err := loadDataset(cfg, bus)
	if err != nil {
		return nil, nil, err
	}
	atlas, err := geo.Load(cfg.Data.Geometry, data.Countries)
	if err != nil {
		bus.Publish(domain.ErrorEvent{Message: "failed to load geometry", Err: err})
		return nil, nil, err
	}
	return data, atlas, nil
}

var auditedEvents = []domain.EventType{
	domain.EventDatasetLoaded,
	domain.EventQuerySettled,
	domain.EventSelectionLocked,
	domain.EventSelectionClear,
	domain.EventRegionToggled,
	domain.EventFiltersCleared,
	domain.EventFocusRequested,
	domain.EventError,
}

// subscribeAudit logs every domain event and returns the unsubscribe func
func subscribeAudit(bus eventbus.EventBus, logger *zap.Logger) func() {
	audit := logger.Named("events")
	unsubs := make([]func(), 0, len(auditedEvents))
	for _, t := range auditedEvents {
		unsubs = append(unsubs, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			audit.Debug(string(e.Type()), eventFields(e)...)
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func eventFields(e eventbus.DomainEvent) []zap.Field {
	switch ev := e.(type) {
	case domain.DatasetLoadedEvent:
		return []zap.Field{zap.String("source", ev.Source), zap.Int("countries", ev.Countries), zap.Int("dropped", ev.Dropped)}
	case domain.QuerySettledEvent:
		return []zap.Field{zap.String("query", ev.Query), zap.Int("results", ev.Results)}
	case domain.SelectionLockedEvent:
		return []zap.Field{zap.String("code", ev.Code), zap.String("previous", ev.Previous)}
	case domain.SelectionClearedEvent:
		return []zap.Field{zap.String("code", ev.Code), zap.String("reason", ev.Reason)}
	case domain.RegionToggledEvent:
		return []zap.Field{zap.String("region", ev.Region), zap.Bool("active", ev.Active), zap.Int("codes", ev.Codes)}
	case domain.FocusRequestedEvent:
		return []zap.Field{zap.String("code", ev.Code), zap.Uint64("seq", ev.Seq)}
	case domain.ErrorEvent:
		return []zap.Field{zap.String("message", ev.Message), zap.Error(ev.Err)}
	}
	return nil
}
