package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/clientip"
	"github.com/dmitrymomot/solidgate/pkg/logger"
	"github.com/dmitrymomot/solidgate/pkg/signature"
)

// HandlerFunc processes a verified callback. An error wrapping
// ErrInvalidPayload makes Handler answer 422, since redelivering the same
// body cannot succeed; any other error answers 500 so the callback is
// redelivered.
type HandlerFunc func(ctx context.Context, e Event) error

// Verifier authenticates callbacks for one webhook key pair.
// It is safe for concurrent use.
type Verifier struct {
	signer *signature.Signer
	opts   *options
}

// New creates a Verifier for the webhook merchant id and secret key.
func New(merchantID, secretKey string, opts ...Option) (*Verifier, error) {
	signer, err := signature.New(merchantID, secretKey)
	if err != nil {
		return nil, err
	}

	o := &options{
		maxBodySize: DefaultMaxBodySize,
		logger:      logger.Discard(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Verifier{signer: signer, opts: o}, nil
}

// Verify checks the Merchant and Signature headers against body.
func (v *Verifier) Verify(h http.Header, body []byte) error {
	merchant := h.Get(signature.HeaderMerchant)
	sig := h.Get(signature.HeaderSignature)
	if merchant == "" || sig == "" {
		return ErrMissingHeaders
	}
	if subtle.ConstantTimeCompare([]byte(merchant), []byte(v.signer.MerchantID())) != 1 {
		return fmt.Errorf("%w: got %q", ErrMerchantMismatch, merchant)
	}
	if !v.signer.Verify(body, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// Handler returns an http.Handler that reads, verifies and dispatches
// callbacks to fn.
func (v *Verifier) Handler(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := logger.EnsureCallID(r.Context())
		log := v.opts.logger.With(logger.Component("webhook"), logger.Path(r.URL.Path))
		if addr, ok := clientip.FromContext(ctx); ok {
			log = log.With(slog.String("client_ip", addr.String()))
		}

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		body, err := v.readBody(w, r)
		if err != nil {
			log.WarnContext(ctx, "webhook body rejected", logger.Error(err))
			status := http.StatusBadRequest
			if errors.Is(err, ErrPayloadTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		if err := v.Verify(r.Header, body); err != nil {
			log.WarnContext(ctx, "webhook verification failed", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		event := Event{
			Merchant:   v.signer.MerchantID(),
			Path:       r.URL.Path,
			Body:       body,
			ReceivedAt: v.opts.now(),
		}
		if err := fn(ctx, event); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrInvalidPayload) {
				status = http.StatusUnprocessableEntity
			}
			log.ErrorContext(ctx, "webhook handler failed", slog.Int("status", status), logger.Error(err))
			http.Error(w, http.StatusText(status), status)
			return
		}

		log.DebugContext(ctx, "webhook accepted")
		w.WriteHeader(http.StatusOK)
	})
}

func (v *Verifier) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, v.opts.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	return body, nil
}
