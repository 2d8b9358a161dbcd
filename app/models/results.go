package models

// InsertResult acknowledges a single insert.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged" bson:"acknowledged"`
	InsertedID   any  `json:"insertedId"   bson:"insertedId"`
}

// UpdateResult acknowledges a single update or upsert.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"  bson:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"  bson:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount" bson:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount" bson:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"    bson:"upsertedId"`
}

// DeleteResult acknowledges a single delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged" bson:"acknowledged"`
	DeletedCount int64 `json:"deletedCount" bson:"deletedCount"`
}
