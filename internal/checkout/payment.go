package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/shopfront/storefront-manager/internal/config"
)

// Intent is the provider's handle for a pending payment. The client secret
// goes back to the browser so it can confirm the payment directly with the
// provider.
type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
}

type intentRequest struct {
	OrderID  int64   `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PaymentClient talks to the external payment-intent provider.
type PaymentClient struct {
	client    *http.Client
	intentURL string
}

func NewPaymentClient(cfg config.Payment) (*PaymentClient, error) {
	secret, err := commoncfg.LoadValueFromSourceRef(cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("loading client secret: %w", err)
	}

	return &PaymentClient{
		client: &http.Client{
			Transport: &clientAuthRoundTripper{
				clientID:     cfg.ClientID,
				clientSecret: string(secret),
				next:         http.DefaultTransport,
			},
		},
		intentURL: cfg.IntentURL,
	}, nil
}

func (c *PaymentClient) CreateIntent(ctx context.Context, orderID int64, amount float64) (Intent, error) {
	body, err := json.Marshal(intentRequest{
		OrderID:  orderID,
		Amount:   amount,
		Currency: "usd",
	})
	if err != nil {
		return Intent{}, fmt.Errorf("marshalling intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.intentURL, bytes.NewReader(body))
	if err != nil {
		return Intent{}, fmt.Errorf("building intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("calling payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Intent{}, fmt.Errorf("payment provider responded with %s", resp.Status)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return Intent{}, fmt.Errorf("decoding intent response: %w", err)
	}

	return intent, nil
}

type clientAuthRoundTripper struct {
	clientID     string
	clientSecret string
	next         http.RoundTripper
}

func (t *clientAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	q := req.URL.Query()
	q.Set("client_id", t.clientID)

	if t.clientSecret != "" {
		q.Set("client_secret", t.clientSecret)
	}

	req.URL.RawQuery = q.Encode()

	return t.next.RoundTrip(req)
}
