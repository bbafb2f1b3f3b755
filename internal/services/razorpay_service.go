package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math"

	razorpay "github.com/razorpay/razorpay-go"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type onlineTxStore interface {
	Create(ctx context.Context, scope tenant.Scope, invoiceID int, orderID string, amount float64) (*models.OnlineTransaction, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error)
	MarkCaptured(ctx context.Context, orderID, paymentID string) (bool, error)
	MarkFailed(ctx context.Context, orderID, errorMessage string) error
}

type onlinePaymentRecorder interface {
	Record(ctx context.Context, scope tenant.Scope, invoiceID int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error)
}

type invoiceGetter interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Invoice, error)
}

// RazorpayService raises checkout orders for open invoice balances and
// settles them from gateway webhooks.
type RazorpayService struct {
	client        *razorpay.Client
	keyID         string
	webhookSecret string
	transactions  onlineTxStore
	invoices      invoiceGetter
	payments      onlinePaymentRecorder
}

func NewRazorpayService(keyID, keySecret, webhookSecret string, transactions onlineTxStore, invoices invoiceGetter, payments onlinePaymentRecorder) *RazorpayService {
	return &RazorpayService{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		webhookSecret: webhookSecret,
		transactions:  transactions,
		invoices:      invoices,
		payments:      payments,
	}
}

// CreateOrder raises a Razorpay order for the invoice's open balance.
func (s *RazorpayService) CreateOrder(ctx context.Context, scope tenant.Scope, invoiceID int) (*models.CreateOrderResponse, error) {
	inv, err := s.invoices.Get(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.InvoiceStatusPending, models.InvoiceStatusSent, models.InvoiceStatusOverdue:
	default:
		return nil, apperrors.InvalidState("invoice is %s; online payment needs an open invoice", inv.Status)
	}
	if inv.BalanceDue <= 0 {
		return nil, apperrors.InvalidState("invoice has no balance due")
	}

	amountPaise := int(math.Round(inv.BalanceDue * 100))
	order, err := s.client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  inv.InvoiceNumber,
		"notes": map[string]interface{}{
			"invoice_id": fmt.Sprintf("%d", inv.ID),
			"society_id": fmt.Sprintf("%d", scope.SocietyID),
		},
	}, nil)
	if err != nil {
		return nil, apperrors.External(err, "creating payment order for invoice %s", inv.InvoiceNumber)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, apperrors.External(nil, "payment gateway returned no order id")
	}

	if _, err := s.transactions.Create(ctx, scope, inv.ID, orderID, inv.BalanceDue); err != nil {
		return nil, err
	}
	log.Printf("[Razorpay] society=%d invoice=%s order=%s for %.2f",
		scope.SocietyID, inv.InvoiceNumber, orderID, inv.BalanceDue)

	return &models.CreateOrderResponse{
		OrderID:     orderID,
		AmountPaise: amountPaise,
		Currency:    "INR",
		KeyID:       s.keyID,
		InvoiceID:   inv.ID,
		BalanceDue:  inv.BalanceDue,
	}, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// an HMAC-SHA256 of the raw body.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook settles a gateway callback. The payment is recorded
// through the invoice transaction before the row is marked captured,
// so a failed recording leaves the transaction open and the gateway's
// redelivery retries it; once captured, redeliveries are acknowledged
// without recording again.
func (s *RazorpayService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.VerifyWebhookSignature(body, signature) {
		return apperrors.Forbidden("invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.Validation("malformed webhook payload")
	}
	orderID := event.Payload.Payment.Entity.OrderID
	if orderID == "" {
		// Events we don't subscribe to; acknowledge and move on.
		return nil
	}

	tx, err := s.transactions.GetByOrderID(ctx, orderID)
	if apperrors.IsNotFound(err) {
		// Orders raised outside this system (or a wiped environment).
		// Acknowledge so the gateway stops redelivering.
		log.Printf("[Razorpay] order=%s has no transaction on record, acknowledging", orderID)
		return nil
	}
	if err != nil {
		return err
	}
	// Webhooks arrive without auth context; the stored transaction
	// restores the tenant scope.
	scope := tenant.Scope{SocietyID: tx.SocietyID}

	switch event.Event {
	case "payment.captured":
		if tx.Status == models.OnlineTxStatusCaptured {
			log.Printf("[Razorpay] order=%s already settled, ignoring redelivery", orderID)
			return nil
		}
		// Record before marking captured so a failed recording is
		// retried on the next delivery.
		_, err := s.payments.Record(ctx, scope, tx.InvoiceID, &models.RecordPaymentRequest{
			Amount:      tx.Amount,
			PaymentDate: timeutil.Now(),
			Method:      models.PaymentMethodOnline,
			Reference:   event.Payload.Payment.Entity.ID,
			Notes:       "Razorpay order " + orderID,
		})
		if err != nil {
			return err
		}
		if _, err := s.transactions.MarkCaptured(ctx, orderID, event.Payload.Payment.Entity.ID); err != nil {
			return err
		}
		cache.InvalidateSociety(ctx, tx.SocietyID)
		log.Printf("[Razorpay] order=%s captured, %.2f recorded against invoice %d",
			orderID, tx.Amount, tx.InvoiceID)
		return nil

	case "payment.failed":
		reason := event.Payload.Payment.Entity.ErrorDescription
		if err := s.transactions.MarkFailed(ctx, orderID, reason); err != nil {
			return err
		}
		log.Printf("[Razorpay] order=%s failed: %s", orderID, reason)
		return nil

	default:
		return nil
	}
}
