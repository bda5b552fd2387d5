package strategy

import (
	"encoding/json"
	"net/url"
)

type tradeStatus struct {
	Option string `json:"option"`
}

type tradeExchange struct {
	Status tradeStatus `json:"status"`
	Have   []string    `json:"have"`
	Want   []string    `json:"want"`
}

type tradeQuery struct {
	Exchange tradeExchange `json:"exchange"`
}

// bulkTradeURL builds a clickable bulk-exchange URL offering chaos for
// the wanted items. An empty shopping list has no URL.
func bulkTradeURL(base string, items []string, league string) string {
	if len(items) == 0 {
		return "N/A"
	}

	query := tradeQuery{
		Exchange: tradeExchange{
			Status: tradeStatus{Option: "online"},
			Have:   []string{"chaos"},
			Want:   items,
		},
	}
	encoded, err := json.Marshal(query)
	if err != nil {
		return "N/A"
	}
	return base + league + "?q=" + url.QueryEscape(string(encoded))
}
