package solidgate

import (
	"context"

	"github.com/dmitrymomot/solidgate/pkg/logger"
)

// Hosted payment form URL patterns, relative to the payment API base URI.
const (
	formURLPattern       = "form?merchant=%s&form_data=%s&signature=%s"
	resignFormURLPattern = "form/resign?merchant=%s&form_data=%s&signature=%s"
)

// FormInit initializes the hosted payment form.
type FormInit struct {
	PaymentIntent string `json:"paymentIntent"`
	Merchant      string `json:"merchant"`
	Signature     string `json:"signature"`
}

// FormUpdate changes the intent of an already rendered form.
type FormUpdate struct {
	PartialIntent string `json:"partialIntent"`
	Signature     string `json:"signature"`
}

// FormResign initializes the resign form.
type FormResign struct {
	ResignIntent string `json:"resignIntent"`
	Merchant     string `json:"merchant"`
	Signature    string `json:"signature"`
}

// FormURL returns a redirect URL to the hosted payment form.
func (c *Client) FormURL(attributes any) (string, error) {
	return c.signer.BuildFormURL(attributes, c.apiURI+formURLPattern)
}

// ResignFormURL returns a redirect URL to the hosted resign form.
func (c *Client) ResignFormURL(attributes any) (string, error) {
	return c.signer.BuildFormURL(attributes, c.apiURI+resignFormURLPattern)
}

// FormMerchantData encrypts attributes into a payment intent for the form SDK.
func (c *Client) FormMerchantData(attributes any) (FormInit, error) {
	token, sig, err := c.signer.EncryptAndSign(attributes)
	if err != nil {
		c.logFormError("form_init", err)
		return FormInit{}, err
	}
	return FormInit{PaymentIntent: token, Merchant: c.signer.MerchantID(), Signature: sig}, nil
}

// FormUpdate encrypts a partial intent for updating a rendered form.
func (c *Client) FormUpdate(attributes any) (FormUpdate, error) {
	token, sig, err := c.signer.EncryptAndSign(attributes)
	if err != nil {
		c.logFormError("form_update", err)
		return FormUpdate{}, err
	}
	return FormUpdate{PartialIntent: token, Signature: sig}, nil
}

// FormResign encrypts a resign intent for the resign form.
func (c *Client) FormResign(attributes any) (FormResign, error) {
	token, sig, err := c.signer.EncryptAndSign(attributes)
	if err != nil {
		c.logFormError("form_resign", err)
		return FormResign{}, err
	}
	return FormResign{ResignIntent: token, Merchant: c.signer.MerchantID(), Signature: sig}, nil
}

func (c *Client) logFormError(op string, err error) {
	c.log.WarnContext(context.Background(), "form data encryption failed", logger.Operation(op), logger.Error(err))
}
