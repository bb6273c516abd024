package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Player is an account document. Accounts created on someone's behalf
// carry a random opaque token as both email and password and stay
// registered=false until the player claims them.
type Player struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string        `bson:"name,omitempty" json:"name"`
	Email      string        `bson:"email" json:"-"`
	Password   string        `bson:"password" json:"-"`
	Registered bool          `bson:"registered" json:"registered"`

	ResetToken   string    `bson:"resetToken,omitempty" json:"-"`
	ResetExpires time.Time `bson:"resetExpires,omitempty" json:"-"`

	Organizations []bson.ObjectID `bson:"organizations" json:"organizations"`
	AddedBy       bson.ObjectID   `bson:"addedBy,omitempty" json:"-"`
}

// PlayerSummary is the only player shape that ever leaves the service:
// no email, no credentials.
type PlayerSummary struct {
	ID   bson.ObjectID `json:"_id"`
	Name string        `json:"name"`
}

func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{ID: p.ID, Name: p.Name}
}
