// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CargoSpec is the client-facing cargo description. Which fields are
// required depends on item_mode; the cross-field rules are enforced by the
// intake validator on top of the tag-level checks.
type CargoSpec struct {
	ItemMode        string   `json:"item_mode" validate:"required,oneof=standard_box custom_dims estimate"`
	StandardBoxCode *string  `json:"standard_box_code,omitempty" validate:"omitempty,box_code"`
	LengthIn        *float64 `json:"length_in,omitempty" validate:"omitempty,gt=0,lte=480"`
	WidthIn         *float64 `json:"width_in,omitempty" validate:"omitempty,gt=0,lte=480"`
	HeightIn        *float64 `json:"height_in,omitempty" validate:"omitempty,gt=0,lte=480"`
	EstimateSize    *string  `json:"estimate_size,omitempty" validate:"omitempty,estimate_category"`
	Quantity        int      `json:"quantity" validate:"required,min=1,max=200"`
	WeightLb        *float64 `json:"weight_lb,omitempty" validate:"omitempty,gt=0,lte=20000"`
}

// SubmitPledgeRequest represents the pledge intake form data
type SubmitPledgeRequest struct {
	PoolID    string  `json:"pool_id" validate:"required,uuid4"`
	UserEmail string  `json:"user_email" validate:"required,email,max=255"`
	UserName  string  `json:"user_name" validate:"required,max=255"`
	UserPhone *string `json:"user_phone,omitempty" validate:"omitempty,min=7,max=20"`

	PickupZone string  `json:"pickup_zone" validate:"required,oneof=in_city out_of_city"`
	PickupCity *string `json:"pickup_city,omitempty" validate:"omitempty,max=120"`

	Cargo CargoSpec `json:"cargo" validate:"required"`

	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`

	// ClientQuote is what the browser showed the user. It is accepted for
	// audit purposes only and never trusted; the engine recomputes.
	ClientQuote *QuoteDTO `json:"client_quote,omitempty" validate:"omitempty"`
}

// QuotePreviewRequest represents a quotation request without intake
type QuotePreviewRequest struct {
	PickupZone string    `json:"pickup_zone" validate:"required,oneof=in_city out_of_city"`
	Cargo      CargoSpec `json:"cargo" validate:"required"`
}

// QuoteDTO represents the computed quotation figures
type QuoteDTO struct {
	ComputedIn3     float64 `json:"computed_in3"`
	ComputedFt3     float64 `json:"computed_ft3"`
	EstShippingCost float64 `json:"est_shipping_cost"`
	EstPickupFee    float64 `json:"est_pickup_fee"`
	HeavySurcharge  float64 `json:"heavy_surcharge,omitempty"`
	EstTotal        float64 `json:"est_total"`
}

// SubmitPledgeResponse represents the response after a pledge is accepted
type SubmitPledgeResponse struct {
	Message    string   `json:"message"`
	PledgeUUID string   `json:"pledge_uuid"`
	PoolUUID   string   `json:"pool_uuid"`
	Status     string   `json:"status"`
	Quote      QuoteDTO `json:"quote"`
}

// QuotePreviewResponse represents the response to a quotation preview
type QuotePreviewResponse struct {
	Quote QuoteDTO `json:"quote"`
}

// PledgeDTO represents pledge data for API responses
type PledgeDTO struct {
	UUID            string   `json:"uuid"`
	PoolUUID        string   `json:"pool_uuid,omitempty"`
	UserEmail       string   `json:"user_email"`
	UserName        string   `json:"user_name"`
	UserPhone       *string  `json:"user_phone,omitempty"`
	PickupZone      string   `json:"pickup_zone"`
	PickupCity      *string  `json:"pickup_city,omitempty"`
	ItemMode        string   `json:"item_mode"`
	StandardBoxCode *string  `json:"standard_box_code,omitempty"`
	LengthIn        *float64 `json:"length_in,omitempty"`
	WidthIn         *float64 `json:"width_in,omitempty"`
	HeightIn        *float64 `json:"height_in,omitempty"`
	EstimateSize    *string  `json:"estimate_size,omitempty"`
	Quantity        int      `json:"quantity"`
	WeightLb        *float64 `json:"weight_lb,omitempty"`
	Quote           QuoteDTO `json:"quote"`
	IsInternalCargo bool     `json:"is_internal_cargo"`
	Notes           *string  `json:"notes,omitempty"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
}
