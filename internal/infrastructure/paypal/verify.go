package paypal

import (
	"context"
	"encoding/json"
	"strings"
)

// requiredSignatureHeaders are the transmission headers PayPal attaches to
// every webhook delivery. All five are needed to build a verification request.
var requiredSignatureHeaders = []string{
	"paypal-auth-algo",
	"paypal-cert-url",
	"paypal-transmission-id",
	"paypal-transmission-sig",
	"paypal-transmission-time",
}

// VerifyWebhookSignature delegates the signature check of an inbound webhook
// to the provider's verification endpoint and returns the trust decision.
// Every failure mode resolves to false: an unverifiable webhook is never
// trusted.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers map[string]string, body []byte) bool {
	if len(body) == 0 {
		return false
	}

	// Header casing is not guaranteed on delivery.
	lower := make(map[string]string, len(headers))
	for k, v := range headers {
		lower[strings.ToLower(k)] = v
	}
	for _, k := range requiredSignatureHeaders {
		if lower[k] == "" {
			return false
		}
	}

	payload := verifyRequest{
		AuthAlgo:         lower["paypal-auth-algo"],
		CertURL:          lower["paypal-cert-url"],
		TransmissionID:   lower["paypal-transmission-id"],
		TransmissionSig:  lower["paypal-transmission-sig"],
		TransmissionTime: lower["paypal-transmission-time"],
		WebhookID:        c.cfg.WebhookID,
		WebhookEvent:     json.RawMessage(body),
	}

	bearer, err := c.bearerHeaders(ctx)
	if err != nil {
		c.logger.Warn("webhook verification skipped, no bearer token", "error", err)
		return false
	}

	status, respBody, err := c.post(ctx, "/v1/notifications/verify-webhook-signature", bearer, payload)
	if err != nil {
		c.logger.Warn("webhook verification request failed", "error", err)
		return false
	}
	if status >= 400 {
		c.logger.Warn("webhook verification rejected", "status", status)
		return false
	}

	var resp verifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return false
	}

	return strings.EqualFold(resp.VerificationStatus, "SUCCESS")
}
