package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// mercadoPago implements Gateway against the MercadoPago REST API.
type mercadoPago struct {
	client      *http.Client
	baseURL     string
	accessToken string
}

func NewMercadoPago(baseURL, accessToken string) Gateway {
	return &mercadoPago{
		client:      &http.Client{Timeout: 5 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
	}
}

func (m *mercadoPago) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"title":      req.Title,
				"quantity":   req.Quantity,
				"unit_price": req.UnitPrice,
			},
		},
		"external_reference": req.ExternalReference,
	}

	var out struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := m.do(ctx, http.MethodPost, "/checkout/preferences", payload, &out); err != nil {
		return nil, err
	}

	return &Preference{ID: out.ID, InitPoint: out.InitPoint}, nil
}

func (m *mercadoPago) GetMerchantOrder(ctx context.Context, orderID string) (*MerchantOrder, error) {
	var out struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		ExternalReference string      `json:"external_reference"`
		Payments          []struct {
			ID                json.Number `json:"id"`
			Status            string      `json:"status"`
			TransactionAmount float64     `json:"transaction_amount"`
		} `json:"payments"`
	}
	if err := m.do(ctx, http.MethodGet, "/merchant_orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}

	order := &MerchantOrder{
		ID:                out.ID.String(),
		Status:            out.Status,
		ExternalReference: out.ExternalReference,
	}
	for _, p := range out.Payments {
		order.Payments = append(order.Payments, OrderPayment{
			ID:     p.ID.String(),
			Status: p.Status,
			Amount: int64(p.TransactionAmount),
		})
	}
	return order, nil
}

func (m *mercadoPago) RefundPayment(ctx context.Context, gatewayPaymentID string) (string, error) {
	var out struct {
		ID json.Number `json:"id"`
	}
	path := "/v1/payments/" + gatewayPaymentID + "/refunds"
	if err := m.do(ctx, http.MethodPost, path, map[string]interface{}{}, &out); err != nil {
		return "", err
	}
	return out.ID.String(), nil
}

func (m *mercadoPago) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mercadopago %s %s: status %s: %s", method, path, strconv.Itoa(resp.StatusCode), string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
