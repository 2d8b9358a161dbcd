package models

// StatusPending is the status an order takes once its payment is confirmed.
const StatusPending = "pending"

const (
	OrderFieldEmail         = "email"
	OrderFieldTotalPrice    = "totalPrice"
	OrderFieldPaid          = "paid"
	OrderFieldTransactionID = "transactionId"
	OrderFieldStatus        = "status"
)

// PaymentPatch is the set of order fields written when a payment is
// confirmed.
type PaymentPatch struct {
	Paid          bool   `bson:"paid"          json:"paid"`
	TransactionID string `bson:"transactionId" json:"transactionId"`
	Status        string `bson:"status"        json:"status"`
}

// NewPaymentPatch builds the patch for a confirmed transaction.
func NewPaymentPatch(transactionID string) PaymentPatch {
	return PaymentPatch{Paid: true, TransactionID: transactionID, Status: StatusPending}
}

// PaymentUpdate is the update document applied to the order, echoed back to
// the client after confirmation.
type PaymentUpdate struct {
	Set PaymentPatch `bson:"$set" json:"$set"`
}
