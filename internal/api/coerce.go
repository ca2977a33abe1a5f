package api

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"prediction-dashboard/internal/models"

	"github.com/spf13/cast"
)

// DefaultConversionRate is applied to new campaigns that omit a rate
const DefaultConversionRate = 2.5

// fields is a decoded JSON object. A key that is present counts as supplied,
// whatever its value.
type fields map[string]interface{}

// numericPrefix matches the leading decimal number of a string, so "12abc" reads as 12
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// toFloat accepts JSON numbers or numeric text, reading text up to the
// first non-numeric character. Anything else, and any non-finite result, is 0.
func toFloat(v interface{}) float64 {
	if s, ok := v.(string); ok {
		v = numericPrefix.FindString(strings.TrimSpace(s))
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toInt is toFloat without the fraction. Values outside int64 are 0.
func toInt(v interface{}) int64 {
	f := math.Trunc(toFloat(v))
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

// toRate is toFloat for exchange rates, where 0 or garbage means fallback
func toRate(v interface{}, fallback float64) float64 {
	f := toFloat(v)
	if f <= 0 {
		return fallback
	}
	return f
}

func toDate(v interface{}) (time.Time, error) {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %v: %w", v, err)
	}
	return t.UTC(), nil
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) str(key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

func (f fields) float(key string) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n := toFloat(v)
	return &n
}

func (f fields) int(key string) *int64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n := toInt(v)
	return &n
}

func (f fields) bool(key string) *bool {
	v, ok := f[key]
	if !ok {
		return nil
	}
	b := cast.ToBool(v)
	return &b
}

func newProduct(f fields) models.NewProduct {
	return models.NewProduct{
		Name:        cast.ToString(f["name"]),
		Category:    cast.ToString(f["category"]),
		UnitPrice:   toFloat(f["unit_price"]),
		Quantity:    toInt(f["quantity"]),
		Description: cast.ToString(f["description"]),
		ImageURL:    cast.ToString(f["image_url"]),
	}
}

func productPatch(f fields) models.ProductPatch {
	return models.ProductPatch{
		Name:        f.str("name"),
		Category:    f.str("category"),
		UnitPrice:   f.float("unit_price"),
		Quantity:    f.int("quantity"),
		Description: f.str("description"),
		ImageURL:    f.str("image_url"),
		IsActive:    f.bool("is_active"),
	}
}

func settingsPatch(f fields, fallbackRate float64) models.SettingsPatch {
	patch := models.SettingsPatch{
		VATRate:      f.float("vat_rate"),
		ShippingCost: f.float("shipping_cost"),
		DiscountRate: f.float("discount_rate"),
		OverheadCost: f.float("overhead_cost"),
	}
	if f.has("usd_to_local_rate") {
		rate := toRate(f["usd_to_local_rate"], fallbackRate)
		patch.USDToLocalRate = &rate
	}
	return patch
}

func newCampaign(f fields) models.NewCampaign {
	c := models.NewCampaign{
		Name:           cast.ToString(f["name"]),
		Budget:         toFloat(f["budget"]),
		ConversionRate: DefaultConversionRate,
	}
	if f.has("conversion_rate") {
		c.ConversionRate = toFloat(f["conversion_rate"])
	}
	return c
}

// campaignPatch fails only on unparseable dates. A null end_date clears it.
func campaignPatch(f fields) (models.CampaignPatch, error) {
	patch := models.CampaignPatch{
		Name:            f.str("name"),
		Budget:          f.float("budget"),
		ConversionRate:  f.float("conversion_rate"),
		ActualCustomers: f.int("actual_customers"),
		ActualRevenue:   f.float("actual_revenue"),
		IsActive:        f.bool("is_active"),
	}

	if v, ok := f["start_date"]; ok {
		t, err := toDate(v)
		if err != nil {
			return models.CampaignPatch{}, err
		}
		patch.StartDate = &t
	}

	if v, ok := f["end_date"]; ok {
		if v == nil || v == "" {
			patch.ClearEndDate = true
		} else {
			t, err := toDate(v)
			if err != nil {
				return models.CampaignPatch{}, err
			}
			patch.EndDate = &t
		}
	}

	return patch, nil
}
