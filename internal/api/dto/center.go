package dto

type CenterResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ListCentersResponse struct {
	Centers []CenterResponse `json:"centers"`
}

type NearestCenterResponse struct {
	Center     CenterResponse `json:"center"`
	DistanceKm float64        `json:"distance_km"`
}
