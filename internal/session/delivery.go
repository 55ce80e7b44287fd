package session

import "sales-assist-bff/internal/entity"

type DeliveryKind int

const (
	DeliveryResult DeliveryKind = iota
	DeliveryError
	DeliveryProgress
)

// Delivery is one asynchronous enrichment outcome, from either the push channel or
// the polling fallback.
type Delivery struct {
	Kind     DeliveryKind
	Result   *entity.EnrichmentResult
	Error    string
	Progress float64
}

func ResultDelivery(result *entity.EnrichmentResult) Delivery {
	return Delivery{Kind: DeliveryResult, Result: result}
}

func ErrorDelivery(message string) Delivery {
	return Delivery{Kind: DeliveryError, Error: message}
}

func ProgressDelivery(progress float64) Delivery {
	return Delivery{Kind: DeliveryProgress, Progress: progress}
}
