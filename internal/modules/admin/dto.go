package admin

import "artfolio/internal/domain"

type UserListFilter struct {
	Role   string `form:"role"`
	Banned *bool  `form:"banned"`
	Query  string `form:"q"` // username/email contains
}

type StatisticsResponse struct {
	Users       UserStats       `json:"users"`
	Artworks    ArtworkStats    `json:"artworks"`
	Orders      OrderStats      `json:"orders"`
	Commissions CommissionStats `json:"commissions"`
}

type UserStats struct {
	Total  int64                     `json:"total"`
	Banned int64                     `json:"banned"`
	ByRole map[domain.UserRole]int64 `json:"by_role"`
}

type ArtworkStats struct {
	Total   int64 `json:"total"`
	Flagged int64 `json:"flagged"`
}

type OrderStats struct {
	Count  int64   `json:"count"`
	Volume float64 `json:"volume"`
}

type CommissionStats struct {
	Total    int64                             `json:"total"`
	ByStatus map[domain.CommissionStatus]int64 `json:"by_status"`
}
