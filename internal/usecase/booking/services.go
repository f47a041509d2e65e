package booking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking")

// resolvedServices is the catalog snapshot a booking is priced from.
type resolvedServices struct {
	services     []models.Service
	totalMinutes int
	totalPrice   decimal.Decimal
}

// uniqueIDs drops duplicates, keeping first occurrence order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// resolveServices loads every requested service. Unknown or inactive ids are
// rejected instead of counting as zero minutes.
func resolveServices(
	ctx context.Context,
	repo domain.Repository,
	ids []uint,
) (resolvedServices, error) {

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return resolvedServices{}, domain.ErrNoServices
	}

	found, err := repo.GetServices(ctx, ids)
	if err != nil {
		return resolvedServices{}, fmt.Errorf("load services: %w", err)
	}

	byID := make(map[uint]models.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	out := resolvedServices{totalPrice: decimal.Zero}
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.IsActive || s.DurationMinutes <= 0 {
			return resolvedServices{}, domain.ErrServiceNotFound
		}
		out.services = append(out.services, s)
		out.totalMinutes += s.DurationMinutes
		out.totalPrice = out.totalPrice.Add(s.Price)
	}

	return out, nil
}
