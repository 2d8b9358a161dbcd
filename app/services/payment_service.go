package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/metrics"
	"github.com/jantrick/jantrick/pkg/payment"
)

var hundred = big.NewInt(100)

// ToMinorUnits converts a decimal amount into processor minor units,
// truncating toward zero: "250" is 25000, "19.999" is 1999. The amount may
// be a JSON string or number.
func ToMinorUnits(totalPrice any) (int64, error) {
	var raw string
	switch v := totalPrice.(type) {
	case string:
		raw = v
	case json.Number:
		raw = v.String()
	case float64:
		raw = big.NewFloat(v).Text('f', -1)
	case int64:
		raw = fmt.Sprint(v)
	case int:
		raw = fmt.Sprint(v)
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, totalPrice)
	}

	r, ok := new(big.Rat).SetString(strings.TrimSpace(raw))
	if !ok || r.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	r.Mul(r, new(big.Rat).SetInt(hundred))
	minor := new(big.Int).Quo(r.Num(), r.Denom())
	if !minor.IsInt64() || minor.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return minor.Int64(), nil
}

// PaymentService is the bridge between orders and the processor.
type PaymentService struct {
	processor payment.Processor
	orders    repositories.OrderStore
	ledger    repositories.PaymentLedger
	currency  string
	now       func() time.Time
}

func NewPaymentService(p payment.Processor, orders repositories.OrderStore, ledger repositories.PaymentLedger, currency string) *PaymentService {
	return &PaymentService{processor: p, orders: orders, ledger: ledger, currency: currency, now: time.Now}
}

// CreateIntent requests a card intent for totalPrice and returns its client
// secret.
func (s *PaymentService) CreateIntent(ctx context.Context, totalPrice any) (string, error) {
	amount, err := ToMinorUnits(totalPrice)
	if err != nil {
		return "", err
	}

	intent, err := s.processor.CreateIntent(ctx, amount, s.currency)
	metrics.PaymentIntents.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return "", err
	}

	logger.WithCtx(ctx).Info("payment intent created", "intent", intent.ID, "amount", amount, "currency", s.currency)
	return intent.ClientSecret, nil
}

// ConfirmPayment marks the order paid and records the outcome in the
// ledger. The two writes are not atomic: when the ledger write fails the
// order stays paid and the error is returned. Repeating a confirmation
// with the same transaction id succeeds without changing the order; a
// different transaction id on a paid order is ErrAlreadyPaid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID, transactionID string) (models.PaymentUpdate, error) {
	id, err := models.ParseID(orderID)
	if err != nil {
		return models.PaymentUpdate{}, err
	}

	patch := models.NewPaymentPatch(transactionID)
	res, err := s.orders.MarkPaid(ctx, id, patch)
	if err != nil {
		metrics.PaymentConfirmations.WithLabelValues(metrics.OutcomeFailure).Inc()
		return models.PaymentUpdate{}, fmt.Errorf("mark order paid: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := s.checkReplay(ctx, id, transactionID); err != nil {
			metrics.PaymentConfirmations.WithLabelValues(metrics.OutcomeFailure).Inc()
			return models.PaymentUpdate{}, err
		}
	}

	rec := models.NewPaymentRecord(id, transactionID, res, s.now())
	if _, err := s.ledger.Record(ctx, rec); err != nil {
		metrics.PaymentConfirmations.WithLabelValues(metrics.OutcomeFailure).Inc()
		logger.WithCtx(ctx).Error("payment ledger write failed after order update",
			"order", orderID, "transaction", transactionID, "error", err)
		return models.PaymentUpdate{}, fmt.Errorf("record payment: %w", err)
	}

	metrics.PaymentConfirmations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return models.PaymentUpdate{Set: patch}, nil
}

// checkReplay explains why MarkPaid matched nothing. It returns nil only
// when the order is already paid under transactionID.
func (s *PaymentService) checkReplay(ctx context.Context, id primitive.ObjectID, transactionID string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order[models.OrderFieldTransactionID] != transactionID {
		logger.WithCtx(ctx).Warn("payment confirmation rejected for paid order",
			"order", id.Hex(), "transaction", transactionID)
		return ErrAlreadyPaid
	}
	return nil
}
