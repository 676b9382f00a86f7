package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionEntry is the permanent record of a draw, owned by the user.
// Immutable once created except for the soft-delete flag.
type CollectionEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"userId" json:"userId"`
	VersionID string             `bson:"versionId" json:"versionId"`
	Rarity    RarityTier         `bson:"rarity" json:"rarity"`
	ItemKey   string             `bson:"itemKey" json:"itemKey"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	IsDeleted bool               `bson:"isDeleted" json:"-"`
}

// ArtworkObjectKey derives the storage key of the card artwork for this entry
func (e *CollectionEntry) ArtworkObjectKey() string {
	return "cards/" + e.VersionID + "/" + e.ItemKey + ".png"
}
