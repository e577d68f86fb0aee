// Package solidgate is a client for the SolidGate payment API.
//
// A Client signs every request with the merchant's secret key, sends it over
// HTTP and returns the raw response body. It also builds encrypted hosted-form
// URLs and iterates reconciliation feeds page by page.
//
// Basic Usage:
//
//	client, err := solidgate.New("api_pk_...", "api_sk_...")
//	if err != nil {
//		return err
//	}
//
//	body := client.Charge(ctx, map[string]any{
//		"order_id": "order-1",
//		"amount":   1000,
//		"currency": "USD",
//	})
//	if body == "" {
//		return client.LastError()
//	}
//
// Named operations swallow errors and expose them through LastError. Send is
// the same call with the error returned in-band:
//
//	body, err := client.Send(ctx, solidgate.OpRefund, attrs)
//
// Reconciliation feeds are lazy iterators:
//
//	it := client.Orders(ctx, from, to)
//	for it.Next() {
//		handle(it.Record())
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
//
// Configuration can be loaded from the environment:
//
//	cfg, err := solidgate.LoadConfig()
//	client, err := solidgate.NewFromConfig(cfg, solidgate.WithLogger(log))
package solidgate
