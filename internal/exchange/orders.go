package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// OrderInfo - структура одного ордера
type OrderInfo struct {
	Symbol      string `json:"symbol"`
	OrderID     int64  `json:"orderId"`
	Price       string `json:"price"`
	OrigQty     string `json:"origQty"`
	ExecutedQty string `json:"executedQty"`
	AvgPrice    string `json:"avgPrice"`
	CumQuote    string `json:"cumQuote"`
	Status      string `json:"status"` // NEW, PARTIALLY_FILLED, FILLED, CANCELED, etc.
	Type        string `json:"type"`
	Side        string `json:"side"`
	Time        int64  `json:"time"`
	UpdateTime  int64  `json:"updateTime"`
}

// GetOpenOrders - получить открытые ордера (symbol пустой = по всем парам)
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]OrderInfo, error) {
	q := url.Values{}
	if symbol != "" {
		q.Set("symbol", symbol)
	}

	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/openOrders", q)
	if err != nil {
		return nil, err
	}

	var orders []OrderInfo
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	return orders, nil
}

// GetAllOrders - история ордеров по символу
func (c *Client) GetAllOrders(ctx context.Context, symbol string, limit int) ([]OrderInfo, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/allOrders", q)
	if err != nil {
		return nil, err
	}

	var orders []OrderInfo
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	return orders, nil
}

// PremiumIndex - ответ /fapi/v1/premiumIndex
type PremiumIndex struct {
	Symbol    string `json:"symbol"`
	MarkPrice string `json:"markPrice"`
}

// GetMarkPrice - текущая марк-цена пары
func (c *Client) GetMarkPrice(ctx context.Context, symbol string) (*PremiumIndex, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	body, err := c.publicRequest(ctx, "/fapi/v1/premiumIndex", q)
	if err != nil {
		return nil, err
	}

	var index PremiumIndex
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	return &index, nil
}
