package models

import "time"

// ShipmentRecord mirrors the carrier report table loaded into Postgres
// from the fulfillment provider exports. The order id shows up either in
// tracking or tracking_number depending on the export batch, so lookups
// probe both columns.
type ShipmentRecord struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	Tracking       string     `json:"tracking"`
	TrackingNumber string     `json:"tracking_number"`
	Name           string     `json:"name"` // carrier name
	Service        string     `json:"service"`
	ServiceVerbose string     `json:"service_verbose"`
	Status         string     `json:"status"`
	StatusVerbose  string     `json:"status_verbose"`
	Cost           *float64   `json:"cost"`
	CreatedAt      time.Time  `json:"created_at"`
	ShippedAt      *time.Time `json:"shipped_at"`
}

// TableName matches the imported report table.
func (ShipmentRecord) TableName() string {
	return "shipment_reports"
}

// ShippingCost is one resolved order-to-cost lookup.
type ShippingCost struct {
	Found          bool    `json:"found"`
	Cost           float64 `json:"cost"`
	Carrier        string  `json:"carrier"`
	Service        string  `json:"service"`
	Status         string  `json:"status"`
	TrackingNumber string  `json:"tracking_number,omitempty"`
	Source         string  `json:"source"`
}

// ShippingStats summarizes the whole shipment table.
type ShippingStats struct {
	TotalShipments int64      `json:"total_shipments"`
	CarriersCount  int64      `json:"carriers_count"`
	AvgCost        float64    `json:"avg_cost"`
	TotalCost      float64    `json:"total_cost"`
	FirstShipment  *time.Time `json:"first_shipment"`
	LastShipment   *time.Time `json:"last_shipment"`
}
