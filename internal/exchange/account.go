package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AssetBalance - баланс по одной валюте из /fapi/v2/account
type AssetBalance struct {
	Asset             string `json:"asset"`
	WalletBalance     string `json:"walletBalance"`
	UnrealizedProfit  string `json:"unrealizedProfit"`
	CrossWalletBal    string `json:"crossWalletBalance"`
	CrossUnPnl        string `json:"crossUnPnl"`
	AvailableBalance  string `json:"availableBalance"`
	MaxWithdrawAmount string `json:"maxWithdrawAmount"`
}

// PositionInfo - позиция по одной паре
type PositionInfo struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	UnrealizedProfit string `json:"unrealizedProfit"`
	Leverage         string `json:"leverage"`
	PositionSide     string `json:"positionSide"`
}

// AccountInfo - общий ответ от /fapi/v2/account
type AccountInfo struct {
	TotalWalletBalance    string         `json:"totalWalletBalance"`
	TotalUnrealizedProfit string         `json:"totalUnrealizedProfit"`
	AvailableBalance      string         `json:"availableBalance"`
	Assets                []AssetBalance `json:"assets"`
	Positions             []PositionInfo `json:"positions"`
}

// GetAccount - состояние фьючерсного счёта: балансы и позиции
func (c *Client) GetAccount(ctx context.Context) (*AccountInfo, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v2/account", nil)
	if err != nil {
		return nil, err
	}

	var account AccountInfo
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	return &account, nil
}

// BalanceEntry - строка ответа /fapi/v2/balance
type BalanceEntry struct {
	Asset              string `json:"asset"`
	Balance            string `json:"balance"`
	CrossWalletBalance string `json:"crossWalletBalance"`
	CrossUnPnl         string `json:"crossUnPnl"`
	AvailableBalance   string `json:"availableBalance"`
	MaxWithdrawAmount  string `json:"maxWithdrawAmount"`
}

// GetBalances - балансы по валютам
func (c *Client) GetBalances(ctx context.Context) ([]BalanceEntry, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v2/balance", nil)
	if err != nil {
		return nil, err
	}

	var balances []BalanceEntry
	if err := json.Unmarshal(body, &balances); err != nil {
		return nil, fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	return balances, nil
}
