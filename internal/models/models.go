package models

import (
	"time"
)

// Product is a catalogue line used for revenue estimation
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Subtotal is unit price times quantity
func (p Product) Subtotal() float64 {
	return p.UnitPrice * float64(p.Quantity)
}

// BusinessSettings is the singleton row with tax, cost and currency parameters.
// Rates are whole percentages (5 means 5%).
type BusinessSettings struct {
	ID             string    `db:"id" json:"id"`
	VATRate        float64   `db:"vat_rate" json:"vat_rate"`
	ShippingCost   float64   `db:"shipping_cost" json:"shipping_cost"`
	DiscountRate   float64   `db:"discount_rate" json:"discount_rate"`
	OverheadCost   float64   `db:"overhead_cost" json:"overhead_cost"`
	USDToLocalRate float64   `db:"usd_to_local_rate" json:"usd_to_local_rate"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// MarketingCampaign is a planned marketing spend
type MarketingCampaign struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Budget          float64    `db:"budget" json:"budget"`
	ConversionRate  float64    `db:"conversion_rate" json:"conversion_rate"`
	StartDate       time.Time  `db:"start_date" json:"start_date"`
	EndDate         *time.Time `db:"end_date" json:"end_date"`
	ActualCustomers int64      `db:"actual_customers" json:"actual_customers"`
	ActualRevenue   float64    `db:"actual_revenue" json:"actual_revenue"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// NewProduct carries caller-supplied fields for an insert
type NewProduct struct {
	Name        string
	Category    string
	UnitPrice   float64
	Quantity    int64
	Description string
	ImageURL    string
}

// NewCampaign carries caller-supplied fields for an insert
type NewCampaign struct {
	Name           string
	Budget         float64
	ConversionRate float64
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Category    *string
	UnitPrice   *float64
	Quantity    *int64
	Description *string
	ImageURL    *string
	IsActive    *bool
}

// SettingsPatch is a partial update of BusinessSettings
type SettingsPatch struct {
	VATRate        *float64
	ShippingCost   *float64
	DiscountRate   *float64
	OverheadCost   *float64
	USDToLocalRate *float64
}

// CampaignPatch is a partial update of a MarketingCampaign
type CampaignPatch struct {
	Name            *string
	Budget          *float64
	ConversionRate  *float64
	StartDate       *time.Time
	EndDate         *time.Time
	ClearEndDate    bool
	ActualCustomers *int64
	ActualRevenue   *float64
	IsActive        *bool
}

// Snapshot is the in-memory copy of the three collections after a load.
// Settings is nil when no settings row exists.
type Snapshot struct {
	Products  []Product           `json:"products"`
	Settings  *BusinessSettings   `json:"settings"`
	Campaigns []MarketingCampaign `json:"campaigns"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Source    string              `json:"source"`
}

// Snapshot sources
const (
	SourceDatabase = "database"
	SourceCache    = "cache"
)

// Clone returns a deep copy so callers can never alias the store's state
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Products != nil {
		out.Products = append([]Product(nil), s.Products...)
	}
	if s.Campaigns != nil {
		out.Campaigns = make([]MarketingCampaign, len(s.Campaigns))
		for i, c := range s.Campaigns {
			if c.EndDate != nil {
				end := *c.EndDate
				c.EndDate = &end
			}
			out.Campaigns[i] = c
		}
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	return out
}
