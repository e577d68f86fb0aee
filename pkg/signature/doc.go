// Package signature implements request signing and hosted-form data
// encryption for the SolidGate API.
//
// Every request is authenticated with an HMAC-SHA512 signature computed over
// the merchant identifier, the payload and the merchant identifier again:
//
//	signature = base64(hex(HMAC-SHA512(secretKey, merchantID + payload + merchantID)))
//
// The hex step is part of the wire format: the API compares against the
// base64 of the lowercase hex digest, not of the raw MAC bytes.
//
// Hosted payment form attributes are serialized to JSON and encrypted with
// AES-256-CBC using the first 32 bytes of the secret key. Two encodings exist
// because the API evolved over time:
//
//   - RandomIV: a random 16-byte IV is prepended to the ciphertext and the
//     result is URL-safe base64 with padding.
//   - StaticIV: the IV is the first 16 bytes of the secret key, nothing is
//     prepended and base64 padding is stripped.
//
// # Usage
//
//	signer, err := signature.New("merchant-id", secretKey,
//	    signature.WithEncryption(signature.RandomIV),
//	)
//	if err != nil {
//	    // handle error
//	}
//
//	req, err := signer.BuildRequest("charge", map[string]any{"amount": 100})
//	// req.Header carries Content-Type, Accept, Merchant and Signature
//
//	url, err := signer.BuildFormURL(attrs,
//	    "https://pay.solidgate.com/api/v1/form?merchant=%s&form_data=%s&signature=%s")
//
// # Error Handling
//
// Configuration problems wrap ErrInvalidCredentials. Cipher failures wrap
// ErrEncryptionFailed or ErrDecryptionFailed. Use errors.Is to match.
//
// A Signer holds only immutable credentials and is safe for concurrent use.
package signature
