package v1

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// OperationOverview summarises one service operation since process start.
type OperationOverview struct {
	Operation    string `json:"operation"`
	Count        int64  `json:"count"`
	ErrorCount   int64  `json:"errorCount"`
	AvgLatencyMs int64  `json:"avgLatencyMs"`
}

// MetricsOverviewResponse is the response of GET /api/system/metrics/overview.
type MetricsOverviewResponse struct {
	Success       bool                 `json:"success"`
	TotalRequests int64                `json:"totalRequests"`
	ErrorCount    int64                `json:"errorCount"`
	SuccessRate   float64              `json:"successRate"`
	Operations    []*OperationOverview `json:"operations"`
	Cache         map[string]any       `json:"cache"`
}

// GetMetricsOverview returns the in-process operation counters.
// GET /api/system/metrics/overview
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()

	resp := MetricsOverviewResponse{
		Success:       true,
		TotalRequests: snapshot.RequestTotal,
		ErrorCount:    snapshot.RequestFailed,
		SuccessRate:   snapshot.SuccessRate(),
		Operations:    make([]*OperationOverview, 0, len(snapshot.Operations)),
		Cache:         s.Store.PreferencesCacheStats(),
	}
	for name, op := range snapshot.Operations {
		resp.Operations = append(resp.Operations, &OperationOverview{
			Operation:    name,
			Count:        op.ExecutionCount,
			ErrorCount:   op.ErrorCount,
			AvgLatencyMs: op.AverageDuration,
		})
	}
	sort.Slice(resp.Operations, func(i, j int) bool {
		return resp.Operations[i].Operation < resp.Operations[j].Operation
	})
	return c.JSON(http.StatusOK, resp)
}
