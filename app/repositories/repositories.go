// Package repositories holds the store interfaces the handlers depend on and
// their two drivers: MongoDB and an in-process memory store.
//
// Lookups that miss return a nil document and a nil error; only transport
// or store failures are errors.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jantrick/jantrick/app/models"
)

// UserStore manages user documents keyed by email.
type UserStore interface {
	// Upsert sets fields on the user with email, creating it when absent.
	Upsert(ctx context.Context, email string, fields models.Document) (models.UpdateResult, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	All(ctx context.Context) ([]models.Document, error)
	// SetRole never creates a user.
	SetRole(ctx context.Context, email, role string) (models.UpdateResult, error)
	DeleteByEmail(ctx context.Context, email string) (models.DeleteResult, error)
}

// ToolStore manages the tool catalogue.
type ToolStore interface {
	Insert(ctx context.Context, doc models.Document) (models.InsertResult, error)
	All(ctx context.Context) ([]models.Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// OrderStore manages orders.
type OrderStore interface {
	Insert(ctx context.Context, doc models.Document) (models.InsertResult, error)
	All(ctx context.Context) ([]models.Document, error)
	FindByEmail(ctx context.Context, email string) ([]models.Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	// MarkPaid applies patch to the order with id unless it is already
	// paid. A paid or missing order reports MatchedCount 0.
	MarkPaid(ctx context.Context, id primitive.ObjectID, patch models.PaymentPatch) (models.UpdateResult, error)
}

// ReviewStore is append-only.
type ReviewStore interface {
	Insert(ctx context.Context, doc models.Document) (models.InsertResult, error)
	All(ctx context.Context) ([]models.Document, error)
}

// PaymentLedger records confirmed payments. Recording the same transaction
// twice leaves the first record in place.
type PaymentLedger interface {
	Record(ctx context.Context, rec models.PaymentRecord) (models.UpdateResult, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores bundles every store for one driver.
type Stores struct {
	Users    UserStore
	Tools    ToolStore
	Orders   OrderStore
	Reviews  ReviewStore
	Payments PaymentLedger
	Health   Pinger
}

func userFromDocument(doc models.Document) *models.User {
	if doc == nil {
		return nil
	}
	u := &models.User{}
	u.Email, _ = doc[models.UserFieldEmail].(string)
	u.Role, _ = doc[models.UserFieldRole].(string)
	return u
}

// profileFields is the part of a login body a client may write. The id,
// the email key and the role are owned by the store and SetRole.
func profileFields(fields models.Document) models.Document {
	out := make(models.Document, len(fields))
	for k, v := range fields {
		switch k {
		case models.FieldID, models.UserFieldEmail, models.UserFieldRole:
			continue
		}
		out[k] = v
	}
	return out
}
