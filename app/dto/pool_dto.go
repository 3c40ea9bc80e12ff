package dto

// PoolDTO represents pool data for the public read surface
type PoolDTO struct {
	UUID                 string        `json:"uuid"`
	Slug                 string        `json:"slug"`
	Title                string        `json:"title"`
	DestinationCity      string        `json:"destination_city"`
	OriginRegion         *string       `json:"origin_region,omitempty"`
	ContainerType        string        `json:"container_type"`
	UsableFt3            float64       `json:"usable_ft3"`
	AnnounceThresholdPct float64       `json:"announce_threshold_pct"`
	Status               string        `json:"status"`
	AcceptingPledges     bool          `json:"accepting_pledges"`
	ShipsAt              *string       `json:"ships_at,omitempty"`
	CreatedAt            string        `json:"created_at"`
	Stats                *PoolStatsDTO `json:"stats,omitempty"`
}

// PoolStatsDTO represents the aggregate fill picture of a pool
type PoolStatsDTO struct {
	PledgeCount   int64   `json:"pledge_count"`
	PledgedFt3    float64 `json:"pledged_ft3"`
	FillPct       float64 `json:"fill_pct"`
	RemainingFt3  float64 `json:"remaining_ft3"`
	AnnounceReady bool    `json:"announce_ready"`
}

// ListPoolsResponse represents the public pool listing
type ListPoolsResponse struct {
	Pools []PoolDTO `json:"pools"`
	Total int       `json:"total"`
}
