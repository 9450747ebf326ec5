package account

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
)

// Charts holds the data behind the account page's history and distribution charts.
type Charts struct {
	History      HistorySeries `json:"history"`
	Distribution Distribution  `json:"distribution"`
}

// HistorySeries has one point per payment. Sent and Received are aligned with Labels;
// a payment in only one direction carries zero in the other series.
type HistorySeries struct {
	Labels   []string          `json:"labels"`
	Sent     []decimal.Decimal `json:"sent"`
	Received []decimal.Decimal `json:"received"`
}

// Distribution counts transactions by direction.
type Distribution struct {
	Sent     int `json:"sent"`
	Received int `json:"received"`
	Other    int `json:"other"`
}

const chartDateLayout = "2006-01-02"

func buildCharts(txns []domain.NormalizedTransaction, address string) Charts {
	payments := lo.Filter(txns, func(t domain.NormalizedTransaction, _ int) bool {
		return t.IsPayment() && !t.Amount.IsZero()
	})

	history := HistorySeries{
		Labels:   make([]string, 0, len(payments)),
		Sent:     make([]decimal.Decimal, 0, len(payments)),
		Received: make([]decimal.Decimal, 0, len(payments)),
	}
	for _, p := range payments {
		history.Labels = append(history.Labels, time.UnixMilli(p.TimestampMillis).UTC().Format(chartDateLayout))
		history.Sent = append(history.Sent, directional(p, p.Sender == address))
		history.Received = append(history.Received, directional(p, p.Receiver == address))
	}

	return Charts{
		History: history,
		Distribution: Distribution{
			Sent: lo.CountBy(txns, func(t domain.NormalizedTransaction) bool {
				return t.Kind == domain.TxTypePayment && t.Sender == address
			}),
			Received: lo.CountBy(txns, func(t domain.NormalizedTransaction) bool {
				return t.Kind == domain.TxTypePayment && t.Receiver == address
			}),
			Other: lo.CountBy(txns, func(t domain.NormalizedTransaction) bool {
				return t.Kind != domain.TxTypePayment
			}),
		},
	}
}

func directional(t domain.NormalizedTransaction, matches bool) decimal.Decimal {
	if !matches {
		return decimal.Zero
	}
	return *t.Amount
}
