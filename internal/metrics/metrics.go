package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

const namespace = "marketplace"

var (
	// Purchases counts purchase attempts by outcome.
	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Purchase attempts by result",
	}, []string{"result"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Successful user registrations",
	})

	Deposits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_total",
		Help:      "Successful cash deposits",
	})

	ItemsListed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_listed_total",
		Help:      "Items put up for sale",
	})

	SessionStoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_store_errors_total",
		Help:      "Failed session store commands by command name",
	}, []string{"command"})
)

var purchaseResults = []struct {
	err   error
	label string
}{
	{domain.ErrNotAuthenticated, "not_authenticated"},
	{domain.ErrItemNotFound, "item_not_found"},
	{domain.ErrItemUnavailable, "item_unavailable"},
	{domain.ErrSelfPurchase, "self_purchase"},
	{domain.ErrInsufficientFunds, "insufficient_funds"},
}

// PurchaseResult maps a purchase outcome to its metric label.
func PurchaseResult(err error) string {
	if err == nil {
		return "ok"
	}
	for _, r := range purchaseResults {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "error"
}

func ObservePurchase(err error) {
	Purchases.WithLabelValues(PurchaseResult(err)).Inc()
}
