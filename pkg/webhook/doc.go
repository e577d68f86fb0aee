// Package webhook receives SolidGate callbacks.
//
// SolidGate signs every callback the same way API requests are signed: the
// Merchant header carries the webhook public key and the Signature header
// the HMAC of the raw body. A Verifier checks both before the body reaches
// application code.
//
// # Basic Usage
//
//	v, err := webhook.New(cfg.MerchantID, cfg.SecretKey,
//		webhook.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	http.Handle("POST /webhooks/solidgate", v.Handler(func(ctx context.Context, e webhook.Event) error {
//		var payload struct {
//			Order struct {
//				OrderID string `json:"order_id"`
//				Status  string `json:"status"`
//			} `json:"order"`
//		}
//		if err := e.Decode(&payload); err != nil {
//			return err
//		}
//		return orders.Update(ctx, payload.Order.OrderID, payload.Order.Status)
//	}))
//
// The handler answers 200 when the callback function returns nil and 500
// otherwise, so SolidGate redelivers failed callbacks. Errors wrapping
// ErrInvalidPayload (for example from Event.Decode) answer 422 instead.
// Unsigned or forged requests get 401 and never reach the callback function.
//
// Webhook keys differ from API keys; use the pair from the webhook section
// of the merchant dashboard.
package webhook
