package types

// StoreSettings holds per-tenant operational preferences persisted as jsonb.
type StoreSettings struct {
	Timezone          string `json:"timezone,omitempty"`
	Currency          string `json:"currency,omitempty"`
	ReceiptFooter     string `json:"receipt_footer,omitempty"`
	AutoConfirmOrders bool   `json:"auto_confirm_orders,omitempty"`
	ServiceChargePct  int    `json:"service_charge_pct,omitempty"`
	TaxPct            int    `json:"tax_pct,omitempty"`
}

// JSONMap is a loose jsonb payload for fields with no fixed shape.
type JSONMap map[string]any
