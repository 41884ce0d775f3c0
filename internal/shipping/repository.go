// Package shipping resolves real carrier costs for orders from the
// imported shipment report table. Without a database every lookup
// reports found=false and the dashboard shows estimated margins.
package shipping

import (
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"woodash/pkg/models"
)

// Repository reads the shipment_reports table. A nil db is valid and
// degrades every lookup.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps the optional gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Available reports whether shipment data can be queried at all.
func (r *Repository) Available() bool {
	return r != nil && r.db != nil
}

// normalizeOrderRef strips the leading "#" WooCommerce puts on order
// numbers so it matches the report's tracking columns.
func normalizeOrderRef(ref string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
}

// CostForOrder looks up one order's shipping cost. The order reference
// may appear in either tracking column depending on the export batch.
func (r *Repository) CostForOrder(orderRef string) models.ShippingCost {
	if !r.Available() {
		return models.ShippingCost{Source: "unavailable"}
	}
	ref := normalizeOrderRef(orderRef)
	if ref == "" {
		return models.ShippingCost{Source: "database"}
	}

	var rec models.ShipmentRecord
	err := r.db.
		Where("tracking = ? OR tracking_number = ?", ref, ref).
		Limit(1).
		Take(&rec).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error().Err(err).Str("order", ref).Msg("shipment lookup failed")
		}
		return models.ShippingCost{Source: "database"}
	}

	cost := models.ShippingCost{
		Found:          true,
		Carrier:        rec.Name,
		Service:        rec.ServiceVerbose,
		Status:         rec.StatusVerbose,
		TrackingNumber: rec.TrackingNumber,
		Source:         "database",
	}
	if cost.Service == "" {
		cost.Service = rec.Service
	}
	if cost.Status == "" {
		cost.Status = rec.Status
	}
	if rec.Cost != nil {
		cost.Cost = *rec.Cost
	}
	return cost
}

// CostsForOrders resolves many orders in one query, keyed by the
// normalized order reference. Orders without a match are absent from
// the map.
func (r *Repository) CostsForOrders(orderRefs []string) map[string]models.ShippingCost {
	out := make(map[string]models.ShippingCost, len(orderRefs))
	if !r.Available() || len(orderRefs) == 0 {
		return out
	}

	refs := make([]string, 0, len(orderRefs))
	for _, ref := range orderRefs {
		if n := normalizeOrderRef(ref); n != "" {
			refs = append(refs, n)
		}
	}
	if len(refs) == 0 {
		return out
	}

	var recs []models.ShipmentRecord
	err := r.db.
		Where("tracking IN ? OR tracking_number IN ?", refs, refs).
		Find(&recs).Error
	if err != nil {
		log.Error().Err(err).Int("orders", len(refs)).Msg("bulk shipment lookup failed")
		return out
	}

	for _, rec := range recs {
		cost := models.ShippingCost{
			Found:          true,
			Carrier:        rec.Name,
			Service:        rec.ServiceVerbose,
			Status:         rec.StatusVerbose,
			TrackingNumber: rec.TrackingNumber,
			Source:         "database",
		}
		if rec.Cost != nil {
			cost.Cost = *rec.Cost
		}
		if rec.Tracking != "" {
			out[rec.Tracking] = cost
		}
		if rec.TrackingNumber != "" && rec.TrackingNumber != rec.Tracking {
			out[rec.TrackingNumber] = cost
		}
	}
	return out
}

// Stats summarizes the whole shipment table for the ops panel.
func (r *Repository) Stats() (models.ShippingStats, error) {
	var stats models.ShippingStats
	if !r.Available() {
		return stats, nil
	}

	row := r.db.Model(&models.ShipmentRecord{}).
		Select(`COUNT(*) AS total_shipments,
			COUNT(DISTINCT name) AS carriers_count,
			COALESCE(AVG(cost), 0) AS avg_cost,
			COALESCE(SUM(cost), 0) AS total_cost,
			MIN(created_at) AS first_shipment,
			MAX(created_at) AS last_shipment`).
		Scan(&stats)
	return stats, row.Error
}
