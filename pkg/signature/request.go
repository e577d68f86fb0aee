package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Header names sent with every API request.
const (
	HeaderMerchant  = "Merchant"
	HeaderSignature = "Signature"
	contentTypeJSON = "application/json"
)

// SignedRequest is a fully prepared API call. It is built per call and must
// not be modified after construction.
type SignedRequest struct {
	Path   string
	Body   []byte
	Header http.Header
}

// BuildRequest encodes attributes as the JSON body and attaches the
// authentication headers. A nil attributes value is sent as an empty object.
func (s *Signer) BuildRequest(path string, attributes any) (*SignedRequest, error) {
	body, err := marshalAttributes(attributes)
	if err != nil {
		return nil, err
	}

	h := make(http.Header, 4)
	h.Set("Content-Type", contentTypeJSON)
	h.Set("Accept", contentTypeJSON)
	h.Set(HeaderMerchant, s.merchantID)
	h.Set(HeaderSignature, s.Sign(body))

	return &SignedRequest{Path: path, Body: body, Header: h}, nil
}

// EncryptAndSign encrypts attributes into a form token and signs the token
// itself, not the raw attributes.
func (s *Signer) EncryptAndSign(attributes any) (token, signature string, err error) {
	token, err = s.EncryptFormData(attributes)
	if err != nil {
		return "", "", err
	}
	return token, s.Sign([]byte(token)), nil
}

// BuildFormURL substitutes merchant id, encrypted token and signature, in that
// order, into pattern. Values are inserted verbatim.
func (s *Signer) BuildFormURL(attributes any, pattern string) (string, error) {
	if strings.Count(pattern, "%s") != 3 || strings.Count(pattern, "%") != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	token, sig, err := s.EncryptAndSign(attributes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(pattern, s.merchantID, token, sig), nil
}

// marshalAttributes produces the exact bytes that get signed or encrypted.
// HTML escaping is disabled so the body matches what other SDKs send for the
// same attributes, and null collapses to an empty object.
func marshalAttributes(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	if bytes.Equal(out, []byte("null")) {
		return []byte("{}"), nil
	}
	return out, nil
}
