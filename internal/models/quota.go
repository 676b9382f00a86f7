package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotaRecord tracks draws consumed by one user on one site-local calendar
// day. Created lazily on the first draw of the day, mutated only via atomic
// increment, never decremented; old rows go inert at dateKey rollover.
type QuotaRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"userId" json:"userId"`
	DateKey   string             `bson:"dateKey" json:"dateKey"` // "2006-01-02" in the site timezone
	Count     int                `bson:"count" json:"count"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// QuotaDecision is the outcome of one check-and-increment attempt
type QuotaDecision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// DateKey formats t in loc as the quota bucket key. The site timezone, not
// the client's, decides when the daily quota resets.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
