package dto

// AdminLoginRequest represents the admin login form data
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,max=60"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminLoginResponse represents the response after successful admin login
type AdminLoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UpdatePledgeStatusRequest represents an operator's status change for a pledge
type UpdatePledgeStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=confirmed withdrawn shipped"`
	IsInternalCargo *bool  `json:"is_internal_cargo,omitempty" validate:"omitempty"`
}

// UpdatePledgeStatusResponse represents the response after a status change
type UpdatePledgeStatusResponse struct {
	Message string    `json:"message"`
	Pledge  PledgeDTO `json:"pledge"`
}

// ListPledgesResponse represents the back-office pledge listing for a pool
type ListPledgesResponse struct {
	Pledges []PledgeDTO        `json:"pledges"`
	Stats   *AdminPoolStatsDTO `json:"stats,omitempty"`
	Total   int                `json:"total"`
}

// AdminPoolStatsDTO extends the public fill picture with the revenue view:
// how much of the pledged volume is the operator's own cargo versus paid
type AdminPoolStatsDTO struct {
	PoolStatsDTO
	InternalFt3 float64 `json:"internal_ft3"`
	PaidFt3     float64 `json:"paid_ft3"`
	EstRevenue  float64 `json:"est_revenue"`
}

// PricingSettingsDTO represents the operator-tunable pricing knobs
type PricingSettingsDTO struct {
	RatePerIn3         float64 `json:"rate_per_in3" validate:"required,gt=0"`
	InCityStopFee      float64 `json:"in_city_stop_fee" validate:"gte=0"`
	OutOfCityBaseFee   float64 `json:"out_of_city_base_fee" validate:"gte=0"`
	OutOfCityPerBoxFee float64 `json:"out_of_city_per_box_fee" validate:"gte=0"`
	SurchargeMode      string  `json:"surcharge_mode" validate:"required,oneof=off flat per_lb_over tiered"`
	HeavyThresholdLb   float64 `json:"heavy_threshold_lb" validate:"gte=0"`
	HeavyFlatFee       float64 `json:"heavy_flat_fee" validate:"gte=0"`
	HeavyPerLbOverFee  float64 `json:"heavy_per_lb_over_fee" validate:"gte=0"`
}

// UpdatePricingSettingsResponse represents the response after a settings update
type UpdatePricingSettingsResponse struct {
	Message  string             `json:"message"`
	Settings PricingSettingsDTO `json:"settings"`
}
