package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/pkg/database"
	"github.com/jantrick/jantrick/pkg/metrics"
)

// NewMongoStores binds every store to its collection in db.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:    &MongoUsers{c: newCollection(db, database.CollUsers)},
		Tools:    &MongoTools{c: newCollection(db, database.CollTools)},
		Orders:   &MongoOrders{c: newCollection(db, database.CollOrders)},
		Reviews:  &MongoReviews{c: newCollection(db, database.CollReviews)},
		Payments: &MongoLedger{c: newCollection(db, database.CollPayments)},
		Health:   mongoPinger{client: db.Client()},
	}
}

type collection struct {
	name string
	coll *mongo.Collection
}

func newCollection(db *mongo.Database, name string) collection {
	return collection{name: name, coll: db.Collection(name)}
}

func (c collection) insert(ctx context.Context, doc models.Document) (models.InsertResult, error) {
	defer metrics.ObserveDBQuery(c.name, "insert", time.Now())

	res, err := c.coll.InsertOne(ctx, doc)
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return models.InsertResult{}, nil
	}
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (c collection) find(ctx context.Context, filter bson.D) ([]models.Document, error) {
	defer metrics.ObserveDBQuery(c.name, "find", time.Now())

	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	docs := []models.Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c collection) findOne(ctx context.Context, filter bson.D) (models.Document, error) {
	defer metrics.ObserveDBQuery(c.name, "find_one", time.Now())

	var doc models.Document
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c collection) updateOne(ctx context.Context, filter, update bson.D, opts ...*options.UpdateOptions) (models.UpdateResult, error) {
	defer metrics.ObserveDBQuery(c.name, "update", time.Now())

	res, err := c.coll.UpdateOne(ctx, filter, update, opts...)
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return models.UpdateResult{}, nil
	}
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c collection) deleteOne(ctx context.Context, filter bson.D) (models.DeleteResult, error) {
	defer metrics.ObserveDBQuery(c.name, "delete", time.Now())

	res, err := c.coll.DeleteOne(ctx, filter)
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return models.DeleteResult{}, nil
	}
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: models.FieldID, Value: id}}
}

func byEmail(email string) bson.D {
	return bson.D{{Key: models.UserFieldEmail, Value: email}}
}

type MongoUsers struct{ c collection }

func (s *MongoUsers) Upsert(ctx context.Context, email string, fields models.Document) (models.UpdateResult, error) {
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: models.UserFieldEmail, Value: email}}}}
	if profile := profileFields(fields); len(profile) > 0 {
		update = append(update, bson.E{Key: "$set", Value: profile})
	}
	return s.c.updateOne(ctx, byEmail(email), update, options.Update().SetUpsert(true))
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	doc, err := s.c.findOne(ctx, byEmail(email))
	if err != nil {
		return nil, err
	}
	return userFromDocument(doc), nil
}

func (s *MongoUsers) All(ctx context.Context) ([]models.Document, error) {
	return s.c.find(ctx, bson.D{})
}

func (s *MongoUsers) SetRole(ctx context.Context, email, role string) (models.UpdateResult, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: models.UserFieldRole, Value: role}}}}
	return s.c.updateOne(ctx, byEmail(email), update)
}

func (s *MongoUsers) DeleteByEmail(ctx context.Context, email string) (models.DeleteResult, error) {
	return s.c.deleteOne(ctx, byEmail(email))
}

type MongoTools struct{ c collection }

func (s *MongoTools) Insert(ctx context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(ctx, doc)
}

func (s *MongoTools) All(ctx context.Context) ([]models.Document, error) {
	return s.c.find(ctx, bson.D{})
}

func (s *MongoTools) FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	return s.c.findOne(ctx, byID(id))
}

func (s *MongoTools) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return s.c.deleteOne(ctx, byID(id))
}

type MongoOrders struct{ c collection }

func (s *MongoOrders) Insert(ctx context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(ctx, doc)
}

func (s *MongoOrders) All(ctx context.Context) ([]models.Document, error) {
	return s.c.find(ctx, bson.D{})
}

func (s *MongoOrders) FindByEmail(ctx context.Context, email string) ([]models.Document, error) {
	return s.c.find(ctx, bson.D{{Key: models.OrderFieldEmail, Value: email}})
}

func (s *MongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	return s.c.findOne(ctx, byID(id))
}

func (s *MongoOrders) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return s.c.deleteOne(ctx, byID(id))
}

func (s *MongoOrders) MarkPaid(ctx context.Context, id primitive.ObjectID, patch models.PaymentPatch) (models.UpdateResult, error) {
	filter := bson.D{
		{Key: models.FieldID, Value: id},
		{Key: models.OrderFieldPaid, Value: bson.D{{Key: "$ne", Value: true}}},
	}
	return s.c.updateOne(ctx, filter, bson.D{{Key: "$set", Value: patch}})
}

type MongoReviews struct{ c collection }

func (s *MongoReviews) Insert(ctx context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(ctx, doc)
}

func (s *MongoReviews) All(ctx context.Context) ([]models.Document, error) {
	return s.c.find(ctx, bson.D{})
}

type MongoLedger struct{ c collection }

// Record upserts on transactionId with $setOnInsert so a replayed
// confirmation matches the existing record instead of adding one.
func (s *MongoLedger) Record(ctx context.Context, rec models.PaymentRecord) (models.UpdateResult, error) {
	filter := bson.D{
		{Key: models.PaymentFieldOrderID, Value: rec.OrderID},
		{Key: models.OrderFieldTransactionID, Value: rec.TransactionID},
	}
	update := bson.D{{Key: "$setOnInsert", Value: rec}}
	return s.c.updateOne(ctx, filter, update, options.Update().SetUpsert(true))
}

type mongoPinger struct{ client *mongo.Client }

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
