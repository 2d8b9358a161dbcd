package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentFieldOrderID links a ledger record to its order.
const PaymentFieldOrderID = "orderId"

// PaymentRecord is the ledger entry written after an order's payment patch.
// One record exists per order and transaction id.
type PaymentRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"  json:"_id,omitempty"`
	OrderID       primitive.ObjectID `bson:"orderId"        json:"orderId"`
	TransactionID string             `bson:"transactionId"  json:"transactionId"`
	Acknowledged  bool               `bson:"acknowledged"   json:"acknowledged"`
	MatchedCount  int64              `bson:"matchedCount"   json:"matchedCount"`
	ModifiedCount int64              `bson:"modifiedCount"  json:"modifiedCount"`
	RecordedAt    time.Time          `bson:"recordedAt"     json:"recordedAt"`
}

// NewPaymentRecord copies the outcome of an order update into a ledger entry.
func NewPaymentRecord(orderID primitive.ObjectID, transactionID string, res UpdateResult, at time.Time) PaymentRecord {
	return PaymentRecord{
		OrderID:       orderID,
		TransactionID: transactionID,
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		RecordedAt:    at.UTC(),
	}
}
