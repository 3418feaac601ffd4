package service

import (
	"context"

	"github.com/samber/lo"

	"exchange_sdk/internal/models"
	"exchange_sdk/internal/paper"
	"exchange_sdk/sdk"
)

// paperVenue 将模拟交易所适配为 Venue
type paperVenue struct {
	*paper.Exchange
}

// NewPaperVenue 以模拟交易所作为后端
func NewPaperVenue(ex *paper.Exchange) Venue {
	return paperVenue{Exchange: ex}
}

func (v paperVenue) ExchangeInfo(ctx context.Context) (models.ExchangeInfo, sdk.UnauthedError) {
	if err := ctx.Err(); err != nil {
		return models.ExchangeInfo{}, sdk.NetworkFailure{Detail: "request aborted", Cause: err}
	}
	return models.ExchangeInfo{Symbols: lo.Map(v.Markets(), func(m paper.MarketInfo, _ int) models.Symbol {
		return toSymbol(m)
	})}, nil
}

func (v paperVenue) Session(apiKey string) Backend {
	return v.Client(apiKey)
}

func toSymbol(m paper.MarketInfo) models.Symbol {
	s := models.Symbol{
		Symbol:     m.Symbol,
		Status:     models.StatusTrading,
		BaseAsset:  m.Base,
		QuoteAsset: m.Quote,
	}
	if m.TickSize != "" {
		s.Filters = append(s.Filters, models.Filter{FilterType: models.FilterPrice, TickSize: m.TickSize})
	}
	if m.StepSize != "" || m.MinQty != "" {
		s.Filters = append(s.Filters, models.Filter{FilterType: models.FilterLotSize, StepSize: m.StepSize, MinQty: m.MinQty})
	}
	return s
}
