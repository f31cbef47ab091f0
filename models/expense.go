package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense is an append-only cost record against a game. Donations share the
// collection and are partitioned off by the IsDonation flag when aggregated.
type Expense struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GameID         primitive.ObjectID `json:"gameId" bson:"gameId"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	Date           time.Time          `json:"date" bson:"date"`
	Amount         float64            `json:"amount" bson:"amount"`
	IsDonation     bool               `json:"isDonation" bson:"isDonation"`
	Memo           string             `json:"memo,omitempty" bson:"memo,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}
