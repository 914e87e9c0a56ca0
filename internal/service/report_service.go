package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService aggregates inventory figures straight from the store.
// A failure of any underlying query fails the whole report.
type ReportService struct {
	orchestrator
}

func NewReportService(store Store, logger *zap.Logger) *ReportService {
	return &ReportService{orchestrator{store: store, logger: logger}}
}

func (s *ReportService) InventoryReport(ctx context.Context) (*domain.ReportSummary, error) {
	s.logger.Info("Generating inventory report")

	var all, low, out []domain.Inventory
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = list(gctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
		return err
	})
	g.Go(func() (err error) {
		low, err = list(gctx, &s.orchestrator, "LowStockInventory", s.store.LowStockInventory)
		return err
	})
	g.Go(func() (err error) {
		out, err = list(gctx, &s.orchestrator, "OutOfStockInventory", s.store.OutOfStockInventory)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ReportSummary{
		TotalProducts:      len(all),
		LowStockProducts:   len(low),
		OutOfStockProducts: len(out),
		TotalValuation:     s.valuation(all),
	}, nil
}

func (s *ReportService) TotalValuation(ctx context.Context) (decimal.Decimal, error) {
	all, err := list(ctx, &s.orchestrator, "ListInventory", s.store.ListInventory)
	if err != nil {
		return decimal.Zero, err
	}
	return s.valuation(all), nil
}

// valuation sums price x quantity over every record. Records whose product
// snapshot is missing contribute nothing.
func (s *ReportService) valuation(records []domain.Inventory) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range records {
		if inv.Product == nil {
			s.logger.Warn("Inventory record without product snapshot skipped in valuation",
				zap.String("inventory_id", inv.ID),
				zap.String("product_id", inv.ProductID))
			continue
		}
		total = total.Add(inv.Product.Price.Mul(decimal.NewFromInt(int64(inv.Quantity))))
	}
	return total
}
