package repositories

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/pkg/database"
	"github.com/jantrick/jantrick/pkg/metrics"
)

// NewMemoryStores returns stores held in process memory. Documents are
// copied on the way in and out so callers never share maps with the store.
func NewMemoryStores() Stores {
	return Stores{
		Users:    &MemoryUsers{c: newTable(database.CollUsers)},
		Tools:    &MemoryTools{c: newTable(database.CollTools)},
		Orders:   &MemoryOrders{c: newTable(database.CollOrders)},
		Reviews:  &MemoryReviews{c: newTable(database.CollReviews)},
		Payments: &MemoryLedger{c: newTable(database.CollPayments)},
		Health:   memoryPinger{},
	}
}

type table struct {
	name string
	mu   sync.RWMutex
	docs []models.Document
}

func newTable(name string) *table {
	return &table{name: name}
}

func (t *table) insert(doc models.Document) models.InsertResult {
	defer metrics.ObserveDBQuery(t.name, "insert", time.Now())

	stored := cloneDocument(doc)
	id, ok := stored[models.FieldID]
	if !ok || id == nil {
		id = primitive.NewObjectID()
		stored[models.FieldID] = id
	}

	t.mu.Lock()
	t.docs = append(t.docs, stored)
	t.mu.Unlock()
	return models.InsertResult{Acknowledged: true, InsertedID: id}
}

func (t *table) find(match func(models.Document) bool) []models.Document {
	defer metrics.ObserveDBQuery(t.name, "find", time.Now())

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := []models.Document{}
	for _, d := range t.docs {
		if match == nil || match(d) {
			out = append(out, cloneDocument(d))
		}
	}
	return out
}

func (t *table) findOne(match func(models.Document) bool) models.Document {
	defer metrics.ObserveDBQuery(t.name, "find_one", time.Now())

	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.index(match); i >= 0 {
		return cloneDocument(t.docs[i])
	}
	return nil
}

// update applies set to the first match. With upsert, a miss inserts seed
// merged with set.
func (t *table) update(match func(models.Document) bool, set models.Document, upsert bool, seed models.Document) models.UpdateResult {
	defer metrics.ObserveDBQuery(t.name, "update", time.Now())

	t.mu.Lock()
	defer t.mu.Unlock()

	res := models.UpdateResult{Acknowledged: true}
	if i := t.index(match); i >= 0 {
		res.MatchedCount = 1
		doc := t.docs[i]
		changed := false
		for k, v := range set {
			if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
				doc[k] = cloneValue(v)
				changed = true
			}
		}
		if changed {
			res.ModifiedCount = 1
		}
		return res
	}

	if !upsert {
		return res
	}

	doc := cloneDocument(seed)
	for k, v := range set {
		doc[k] = cloneValue(v)
	}
	id := primitive.NewObjectID()
	doc[models.FieldID] = id
	t.docs = append(t.docs, doc)
	res.UpsertedCount = 1
	res.UpsertedID = id
	return res
}

func (t *table) deleteOne(match func(models.Document) bool) models.DeleteResult {
	defer metrics.ObserveDBQuery(t.name, "delete", time.Now())

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(match)
	if i < 0 {
		return models.DeleteResult{Acknowledged: true}
	}
	t.docs = append(t.docs[:i], t.docs[i+1:]...)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}
}

// index must be called with mu held.
func (t *table) index(match func(models.Document) bool) int {
	for i, d := range t.docs {
		if match(d) {
			return i
		}
	}
	return -1
}

func fieldEquals(key string, want any) func(models.Document) bool {
	return func(d models.Document) bool {
		v, ok := d[key]
		return ok && reflect.DeepEqual(v, want)
	}
}

func hasID(id primitive.ObjectID) func(models.Document) bool {
	return fieldEquals(models.FieldID, id)
}

func cloneDocument(in models.Document) models.Document {
	out := make(models.Document, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case models.Document:
		return cloneDocument(val)
	case map[string]any:
		return cloneDocument(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

type MemoryUsers struct{ c *table }

func (s *MemoryUsers) Upsert(_ context.Context, email string, fields models.Document) (models.UpdateResult, error) {
	seed := models.Document{models.UserFieldEmail: email}
	return s.c.update(fieldEquals(models.UserFieldEmail, email), profileFields(fields), true, seed), nil
}

func (s *MemoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return userFromDocument(s.c.findOne(fieldEquals(models.UserFieldEmail, email))), nil
}

func (s *MemoryUsers) All(context.Context) ([]models.Document, error) {
	return s.c.find(nil), nil
}

func (s *MemoryUsers) SetRole(_ context.Context, email, role string) (models.UpdateResult, error) {
	set := models.Document{models.UserFieldRole: role}
	return s.c.update(fieldEquals(models.UserFieldEmail, email), set, false, nil), nil
}

func (s *MemoryUsers) DeleteByEmail(_ context.Context, email string) (models.DeleteResult, error) {
	return s.c.deleteOne(fieldEquals(models.UserFieldEmail, email)), nil
}

type MemoryTools struct{ c *table }

func (s *MemoryTools) Insert(_ context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(doc), nil
}

func (s *MemoryTools) All(context.Context) ([]models.Document, error) {
	return s.c.find(nil), nil
}

func (s *MemoryTools) FindByID(_ context.Context, id primitive.ObjectID) (models.Document, error) {
	return s.c.findOne(hasID(id)), nil
}

func (s *MemoryTools) DeleteByID(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return s.c.deleteOne(hasID(id)), nil
}

type MemoryOrders struct{ c *table }

func (s *MemoryOrders) Insert(_ context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(doc), nil
}

func (s *MemoryOrders) All(context.Context) ([]models.Document, error) {
	return s.c.find(nil), nil
}

func (s *MemoryOrders) FindByEmail(_ context.Context, email string) ([]models.Document, error) {
	return s.c.find(fieldEquals(models.OrderFieldEmail, email)), nil
}

func (s *MemoryOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Document, error) {
	return s.c.findOne(hasID(id)), nil
}

func (s *MemoryOrders) DeleteByID(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return s.c.deleteOne(hasID(id)), nil
}

func (s *MemoryOrders) MarkPaid(_ context.Context, id primitive.ObjectID, patch models.PaymentPatch) (models.UpdateResult, error) {
	set := models.Document{
		models.OrderFieldPaid:          patch.Paid,
		models.OrderFieldTransactionID: patch.TransactionID,
		models.OrderFieldStatus:        patch.Status,
	}
	return s.c.update(unpaid(id), set, false, nil), nil
}

func unpaid(id primitive.ObjectID) func(models.Document) bool {
	return func(d models.Document) bool {
		return hasID(id)(d) && d[models.OrderFieldPaid] != true
	}
}

type MemoryReviews struct{ c *table }

func (s *MemoryReviews) Insert(_ context.Context, doc models.Document) (models.InsertResult, error) {
	return s.c.insert(doc), nil
}

func (s *MemoryReviews) All(context.Context) ([]models.Document, error) {
	return s.c.find(nil), nil
}

type MemoryLedger struct{ c *table }

func (s *MemoryLedger) Record(_ context.Context, rec models.PaymentRecord) (models.UpdateResult, error) {
	seed := models.Document{
		models.PaymentFieldOrderID:     rec.OrderID,
		models.OrderFieldTransactionID: rec.TransactionID,
		"acknowledged":                 rec.Acknowledged,
		"matchedCount":                 rec.MatchedCount,
		"modifiedCount":                rec.ModifiedCount,
		"recordedAt":                   rec.RecordedAt,
	}
	sameOrder := fieldEquals(models.PaymentFieldOrderID, rec.OrderID)
	sameTx := fieldEquals(models.OrderFieldTransactionID, rec.TransactionID)
	match := func(d models.Document) bool { return sameOrder(d) && sameTx(d) }
	return s.c.update(match, nil, true, seed), nil
}

// Records returns a copy of the ledger.
func (s *MemoryLedger) Records() []models.Document {
	return s.c.find(nil)
}

type memoryPinger struct{}

func (memoryPinger) Ping(context.Context) error { return nil }
