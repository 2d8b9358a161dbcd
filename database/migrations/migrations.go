// Package migrations registers the store's index migrations. It is imported
// by cmd/jantrick so every migration is known at CLI startup.
package migrations

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/pkg/database"
	"github.com/jantrick/jantrick/pkg/migration"
)

func init() {
	migration.Register("20260101000000_user_email_unique", UserEmailUnique)
	migration.Register("20260101000001_orders_email", OrdersByEmail)
	migration.Register("20260101000002_payment_order_transaction_unique", PaymentOrderTransactionUnique)
}

// UserEmailUnique backs the upsert-by-email login path.
var UserEmailUnique = migration.Index{
	Collection: database.CollUsers,
	Model: mongo.IndexModel{
		Keys:    bson.D{{Key: models.UserFieldEmail, Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	},
}

var OrdersByEmail = migration.Index{
	Collection: database.CollOrders,
	Model: mongo.IndexModel{
		Keys:    bson.D{{Key: models.OrderFieldEmail, Value: 1}},
		Options: options.Index().SetName("email"),
	},
}

// PaymentOrderTransactionUnique keeps one ledger record per order and
// transaction pair, the key the ledger upserts on.
var PaymentOrderTransactionUnique = migration.Index{
	Collection: database.CollPayments,
	Model: mongo.IndexModel{
		Keys: bson.D{
			{Key: models.PaymentFieldOrderID, Value: 1},
			{Key: models.OrderFieldTransactionID, Value: 1},
		},
		Options: options.Index().SetName("orderId_transactionId_unique").SetUnique(true),
	},
}
