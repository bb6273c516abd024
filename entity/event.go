package entity

import (
	"fmt"
	"time"

	"github.com/klauspost/lctime"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Event struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name,omitempty" json:"name"`
	Date time.Time     `bson:"date,omitempty" json:"date"`

	Organizations []bson.ObjectID `bson:"organizations" json:"organizations"`

	Flights []*Flight `bson:"flights" json:"flights"`

	// Revision guards whole-document replaces. Every save matches on the
	// loaded revision and bumps it, so a racing writer loses instead of
	// silently overwriting.
	Revision int64 `bson:"revision" json:"-"`
}

// Flight returns the flight at index i, or nil when i is out of range.
// Flights are index-addressed within their event; they have no identity
// of their own.
func (e *Event) Flight(i int) *Flight {
	if i < 0 || i >= len(e.Flights) {
		return nil
	}
	return e.Flights[i]
}

func (e *Event) Alias() string {
	t, _ := lctime.StrftimeLoc("en_US", "%A / %d %b", e.Date)
	return fmt.Sprintf("%s / %s", t, e.Name)
}

type Flight struct {
	TeeTime    time.Time       `bson:"teeTime,omitempty" json:"teeTime,omitempty"`
	MaxPlayers int             `bson:"maxPlayers" json:"maxPlayers"`
	Players    []*FlightPlayer `bson:"players" json:"players"`
}

// FlightPlayer is a player's embedded presence within one flight: a
// denormalized name snapshot plus references to the owning account and
// the account that added it. It lives and dies with its flight.
type FlightPlayer struct {
	PlayerID bson.ObjectID `bson:"playerId,omitempty" json:"playerId"`
	Name     string        `bson:"name" json:"name"`
	AddedBy  bson.ObjectID `bson:"addedBy,omitempty" json:"addedBy"`
}

// CanBeModifiedBy reports whether the given account may remove or move
// this entry: only the owning player or whoever added them. Owning the
// event is deliberately not enough.
func (p *FlightPlayer) CanBeModifiedBy(userID bson.ObjectID) bool {
	return p.PlayerID == userID || p.AddedBy == userID
}

// The mutators below match entries by display name, not by id. That is
// how the system has always behaved; authorization lookups use
// FindPlayerByID instead. See DESIGN.md.

func (f *Flight) HasPlayer(p *FlightPlayer) bool {
	for _, fp := range f.Players {
		if fp.Name == p.Name {
			return true
		}
	}
	return false
}

func (f *Flight) FindPlayerByName(p *FlightPlayer) *FlightPlayer {
	for _, fp := range f.Players {
		if fp.Name == p.Name {
			return fp
		}
	}
	return nil
}

func (f *Flight) FindPlayerByID(id bson.ObjectID) *FlightPlayer {
	for _, fp := range f.Players {
		if fp.PlayerID == id {
			return fp
		}
	}
	return nil
}

// WithoutPlayer returns a new slice with every name-matching entry
// removed, duplicates included.
func (f *Flight) WithoutPlayer(p *FlightPlayer) []*FlightPlayer {
	players := make([]*FlightPlayer, 0, len(f.Players))
	for _, fp := range f.Players {
		if fp.Name != p.Name {
			players = append(players, fp)
		}
	}
	return players
}

func (f *Flight) IsFull() bool {
	return len(f.Players) >= f.MaxPlayers
}
