package service

import (
	"context"
	"time"

	"github.com/fairwayhq/teesheet/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// EventStore is the persistence gateway for event aggregates. The whole
// document is loaded, mutated in memory and replaced as one unit; that
// replace is the system's substitute for a transaction.
type EventStore interface {
	FindOneByID(ctx context.Context, id bson.ObjectID) (*entity.Event, error)
	FindManyUpcomingByOrganizations(ctx context.Context, orgIDs []bson.ObjectID) ([]*entity.Event, error)
	ReplaceOne(ctx context.Context, event *entity.Event) (*entity.Event, error)
}

type OrganizationStore interface {
	FindManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Organization, error)
}

type EventService struct {
	eventStore EventStore
	orgStore   OrganizationStore
}

func NewEventService(eventStore EventStore, orgStore OrganizationStore) *EventService {
	return &EventService{
		eventStore: eventStore,
		orgStore:   orgStore,
	}
}

// DisplayEvent is the outward shape of an event: organization ids are
// resolved to names and internal bookkeeping stays behind.
type DisplayEvent struct {
	ID            string           `json:"_id"`
	Name          string           `json:"name"`
	Alias         string           `json:"alias"`
	Date          time.Time        `json:"date"`
	Organizations []string         `json:"organizations"`
	Flights       []*entity.Flight `json:"flights"`
}

// UpcomingForUser lists future events owned by any of the acting user's
// organizations, soonest first.
func (s *EventService) UpcomingForUser(ctx context.Context, actor *entity.Player) ([]*DisplayEvent, error) {
	events, err := s.eventStore.FindManyUpcomingByOrganizations(ctx, actor.Organizations)
	if err != nil {
		return nil, err
	}

	display := make([]*DisplayEvent, len(events))

	group, ctx := errgroup.WithContext(ctx)
	for i, event := range events {
		group.Go(func() error {
			orgs, err := s.orgStore.FindManyByIDs(ctx, event.Organizations)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(orgs))
			for _, org := range orgs {
				names = append(names, org.Name)
			}

			display[i] = &DisplayEvent{
				ID:            event.ID.Hex(),
				Name:          event.Name,
				Alias:         event.Alias(),
				Date:          event.Date,
				Organizations: names,
				Flights:       event.Flights,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return display, nil
}

// AddPlayerToFlight appends an entry to the flight at flightIdx. Adding
// someone already present (by name) is an idempotent no-op reported via
// the second return value, not an error. Any member of an organization
// owning the event may add.
//
// Capacity is not checked here; only moves enforce maxPlayers. The
// asymmetry is inherited behavior, kept until product says otherwise.
func (s *EventService) AddPlayerToFlight(ctx context.Context, actor *entity.Player, eventID bson.ObjectID, flightIdx int, entry *entity.FlightPlayer) (*entity.Event, bool, error) {
	event, err := s.eventStore.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	flight := event.Flight(flightIdx)
	if flight == nil {
		return nil, false, entity.ErrInvalidFlight
	}

	if flight.HasPlayer(entry) {
		return event, true, nil
	}

	if !entity.OrganizationsIntersect(event.Organizations, actor.Organizations) {
		return nil, false, entity.ErrNotAuthorized
	}

	entry.AddedBy = actor.ID
	flight.Players = append(flight.Players, entry)

	saved, err := s.eventStore.ReplaceOne(ctx, event)
	if err != nil {
		return nil, false, err
	}

	return saved, false, nil
}

// RemovePlayerFromFlight removes every name-matching entry from the
// flight at flightIdx. Authorization is per entry: the entry resolved by
// account id must belong to the actor or have been added by them.
func (s *EventService) RemovePlayerFromFlight(ctx context.Context, actor *entity.Player, eventID bson.ObjectID, flightIdx int, entry *entity.FlightPlayer) (*entity.Event, error) {
	event, err := s.eventStore.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	flight := event.Flight(flightIdx)
	if flight == nil {
		return nil, entity.ErrInvalidFlight
	}

	resident := flight.FindPlayerByID(entry.PlayerID)
	if resident == nil {
		return nil, entity.ErrPlayerNotFound
	}

	if !resident.CanBeModifiedBy(actor.ID) {
		return nil, entity.ErrNotAuthorized
	}

	flight.Players = flight.WithoutPlayer(entry)

	return s.eventStore.ReplaceOne(ctx, event)
}

// MovePlayerBetweenFlights moves an entry from one flight to another
// within the same event, preserving its playerId and addedBy fields.
// Checks run in a fixed order and the first failure aborts the whole
// operation before anything is persisted.
func (s *EventService) MovePlayerBetweenFlights(ctx context.Context, actor *entity.Player, eventID bson.ObjectID, fromIdx, toIdx int, entry *entity.FlightPlayer) (*entity.Event, error) {
	event, err := s.eventStore.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	source := event.Flight(fromIdx)
	if source == nil || !source.HasPlayer(entry) {
		return nil, entity.ErrNotInSourceFlight
	}

	destination := event.Flight(toIdx)
	if destination == nil {
		return nil, entity.ErrInvalidFlight
	}

	resident := source.FindPlayerByID(entry.PlayerID)
	if resident == nil {
		return nil, entity.ErrPlayerNotFound
	}

	if !resident.CanBeModifiedBy(actor.ID) {
		return nil, entity.ErrNotAuthorized
	}

	if destination.HasPlayer(entry) {
		return nil, entity.ErrAlreadyInFlight
	}

	if destination.IsFull() {
		return nil, entity.ErrFlightFull
	}

	// Append the source-resident entry, then strip the source. Both
	// flights land in the same document write, so the intermediate
	// duplicate is never observable.
	destination.Players = append(destination.Players, source.FindPlayerByName(entry))
	source.Players = source.WithoutPlayer(entry)

	return s.eventStore.ReplaceOne(ctx, event)
}
