package paypal

import "encoding/json"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnitPayload struct {
	CustomID    string        `json:"custom_id"`
	Description string        `json:"description"`
	Amount      amountPayload `json:"amount"`
	Shipping    struct{}      `json:"shipping"`
}

type applicationContextPayload struct {
	BrandName          string `json:"brand_name"`
	Locale             string `json:"locale"`
	LandingPage        string `json:"landing_page"`
	UserAction         string `json:"user_action"`
	ShippingPreference string `json:"shipping_preference"`
	ReturnURL          string `json:"return_url"`
	CancelURL          string `json:"cancel_url"`
}

type createOrderRequest struct {
	Intent             string                    `json:"intent"`
	PurchaseUnits      []purchaseUnitPayload     `json:"purchase_units"`
	ApplicationContext applicationContextPayload `json:"application_context"`
}

type linkPayload struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type createOrderResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Links  []linkPayload `json:"links"`
}

type captureOrderResponse struct {
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type refundRequest struct {
	NoteToPayer string        `json:"note_to_payer"`
	Amount      amountPayload `json:"amount"`
}

type refundResponse struct {
	Status string `json:"status"`
}

type verifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}
