package api

// TopPlantsRequest is the query string of GET /plants/top
type TopPlantsRequest struct {
	TopNumber int    `form:"top_number" binding:"required,gt=0"`
	Metric    string `form:"metric"`
}

// StateSummaryRequest is the query string of GET /plants/states
type StateSummaryRequest struct {
	Metric string `form:"metric" binding:"required"`
}

// StateRequest is the path of GET /plants/state/:state
type StateRequest struct {
	State string `uri:"state" binding:"required,len=2,alpha"`
}

// ProfileRequest is the query string of GET /plants/metrics/profile
type ProfileRequest struct {
	Metric string `form:"metric"`
}
