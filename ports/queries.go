package ports

import "powerplants/domain/plant"

// PlantQueryService is the read API the HTTP and CLI surfaces depend on
type PlantQueryService interface {
	TopNPlants(n int, metric string) (plant.TopPlantList, error)
	PlantMetricSummaryByState(plantMetric string) (plant.StateSummary, error)
	DataByState(state string) (plant.StateData, error)
	NumericMetrics() plant.MetricList
	MetricProfile(metric string) (plant.MetricProfile, error)
	DatasetInfo() plant.DatasetInfo
}
