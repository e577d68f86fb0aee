package ratelimiter

import (
	"context"
	"errors"

	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

// Throttle returns a Sender that waits for a token from b before every
// request. Requests are keyed by their Merchant header.
func Throttle(next transport.Sender, b *Bucket) transport.Sender {
	return transport.SenderFunc(func(ctx context.Context, req *signature.SignedRequest) ([]byte, error) {
		key := ""
		if req != nil {
			key = req.Header.Get(signature.HeaderMerchant)
		}
		if err := b.Wait(ctx, key); err != nil {
			path := ""
			if req != nil {
				path = req.Path
			}
			return nil, &transport.Error{Path: path, Err: errors.Join(ErrRateLimited, err)}
		}
		return next.Send(ctx, req)
	})
}
