package solidgate

import (
	"context"
	"fmt"
	"strings"
)

// API identifies which base URI an Operation is sent to.
type API int

const (
	PaymentAPI API = iota
	ReconciliationAPI
)

func (a API) String() string {
	switch a {
	case PaymentAPI:
		return "payment"
	case ReconciliationAPI:
		return "reconciliation"
	default:
		return "unknown"
	}
}

// Operation is a single-request API call.
type Operation struct {
	Name string
	Path string
	API  API
}

var (
	OpCharge         = Operation{Name: "charge", Path: "charge", API: PaymentAPI}
	OpRecurring      = Operation{Name: "recurring", Path: "recurring", API: PaymentAPI}
	OpStatus         = Operation{Name: "status", Path: "status", API: PaymentAPI}
	OpRefund         = Operation{Name: "refund", Path: "refund", API: PaymentAPI}
	OpResign         = Operation{Name: "resign", Path: "resign", API: PaymentAPI}
	OpAuth           = Operation{Name: "auth", Path: "auth", API: PaymentAPI}
	OpVoid           = Operation{Name: "void", Path: "void", API: PaymentAPI}
	OpSettle         = Operation{Name: "settle", Path: "settle", API: PaymentAPI}
	OpArnCode        = Operation{Name: "arn_code", Path: "arn-code", API: PaymentAPI}
	OpApplePay       = Operation{Name: "apple_pay", Path: "apple-pay", API: PaymentAPI}
	OpGooglePay      = Operation{Name: "google_pay", Path: "google-pay", API: PaymentAPI}
	OpInitPayment    = Operation{Name: "init_payment", Path: "init-payment", API: PaymentAPI}
	OpAntifraudOrder = Operation{Name: "antifraud_order", Path: "api/v2/reconciliation/antifraud/order", API: ReconciliationAPI}
)

// Operations lists every direct operation.
func Operations() []Operation {
	return []Operation{
		OpCharge, OpRecurring, OpStatus, OpRefund, OpResign, OpAuth, OpVoid,
		OpSettle, OpArnCode, OpApplePay, OpGooglePay, OpInitPayment, OpAntifraudOrder,
	}
}

// ParseOperation finds an operation by name or path.
func ParseOperation(name string) (Operation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations() {
		if op.Name == name || op.Path == name {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Charge creates a payment. On failure it returns "" and LastError holds the cause.
func (c *Client) Charge(ctx context.Context, attributes any) string {
	return c.call(ctx, OpCharge, attributes)
}

// Recurring charges a saved card token.
func (c *Client) Recurring(ctx context.Context, attributes any) string {
	return c.call(ctx, OpRecurring, attributes)
}

// Status fetches the state of an order.
func (c *Client) Status(ctx context.Context, attributes any) string {
	return c.call(ctx, OpStatus, attributes)
}

func (c *Client) Refund(ctx context.Context, attributes any) string {
	return c.call(ctx, OpRefund, attributes)
}

func (c *Client) Resign(ctx context.Context, attributes any) string {
	return c.call(ctx, OpResign, attributes)
}

// Auth places a hold without capturing funds.
func (c *Client) Auth(ctx context.Context, attributes any) string {
	return c.call(ctx, OpAuth, attributes)
}

func (c *Client) Void(ctx context.Context, attributes any) string {
	return c.call(ctx, OpVoid, attributes)
}

// Settle captures a previously authorized payment.
func (c *Client) Settle(ctx context.Context, attributes any) string {
	return c.call(ctx, OpSettle, attributes)
}

func (c *Client) ArnCode(ctx context.Context, attributes any) string {
	return c.call(ctx, OpArnCode, attributes)
}

func (c *Client) ApplePay(ctx context.Context, attributes any) string {
	return c.call(ctx, OpApplePay, attributes)
}

func (c *Client) GooglePay(ctx context.Context, attributes any) string {
	return c.call(ctx, OpGooglePay, attributes)
}

func (c *Client) InitPayment(ctx context.Context, attributes any) string {
	return c.call(ctx, OpInitPayment, attributes)
}

// AntifraudOrder looks up antifraud details for one order through the
// reconciliation API.
func (c *Client) AntifraudOrder(ctx context.Context, orderID string) string {
	return c.call(ctx, OpAntifraudOrder, map[string]string{"order_id": orderID})
}
