package metrics

import (
	"sort"
	"time"
)

// TotalTokens returns the total tokens for metrics matching the filter.
func (s *Store) TotalTokens(f Filter) int {
	var total int
	for _, m := range s.List(f, 0) {
		total += m.TotalTokens
	}
	return total
}

// TotalTime returns the total execution time for metrics matching the filter.
func (s *Store) TotalTime(f Filter) time.Duration {
	var total float64
	for _, m := range s.List(f, 0) {
		total += m.ExecutionSeconds
	}
	return time.Duration(total * float64(time.Second))
}

// Summary provides a summary of metrics for a filter.
type Summary struct {
	Count          int           `json:"count"`
	TotalTokens    int           `json:"total_tokens"`
	TotalTime      time.Duration `json:"total_time"`
	SuccessCount   int           `json:"success_count"`
	ErrorCount     int           `json:"error_count"`
	AvgTokens      float64       `json:"avg_tokens"`
	AvgTimeSeconds float64       `json:"avg_time_seconds"`
}

// GetSummary returns a summary of metrics matching the filter.
func (s *Store) GetSummary(f Filter) *Summary {
	metrics := s.List(f, 0)

	summary := &Summary{Count: len(metrics)}
	for _, m := range metrics {
		summary.TotalTokens += m.TotalTokens
		summary.TotalTime += time.Duration(m.ExecutionSeconds * float64(time.Second))
		if m.Success {
			summary.SuccessCount++
		} else {
			summary.ErrorCount++
		}
	}

	if summary.Count > 0 {
		summary.AvgTokens = float64(summary.TotalTokens) / float64(summary.Count)
		summary.AvgTimeSeconds = summary.TotalTime.Seconds() / float64(summary.Count)
	}

	return summary
}

// DetailedStats provides statistics including latency percentiles and token
// breakdowns.
type DetailedStats struct {
	// Basic counts
	Count        int `json:"count"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`

	// Latency percentiles (seconds)
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyP99 float64 `json:"latency_p99"`
	LatencyAvg float64 `json:"latency_avg"`
	LatencyMin float64 `json:"latency_min"`
	LatencyMax float64 `json:"latency_max"`

	// Token stats
	TotalPromptTokens     int `json:"total_prompt_tokens"`
	TotalCompletionTokens int `json:"total_completion_tokens"`
	TotalTokens           int `json:"total_tokens"`

	// Average tokens per call
	AvgPromptTokens     float64 `json:"avg_prompt_tokens"`
	AvgCompletionTokens float64 `json:"avg_completion_tokens"`
	AvgTotalTokens      float64 `json:"avg_total_tokens"`
}

// GetDetailedStats returns detailed statistics for metrics matching the filter.
func (s *Store) GetDetailedStats(f Filter) *DetailedStats {
	metrics := s.List(f, 0)

	stats := &DetailedStats{Count: len(metrics)}
	if len(metrics) == 0 {
		return stats
	}

	var latencies []float64
	for _, m := range metrics {
		if m.Success {
			stats.SuccessCount++
		} else {
			stats.ErrorCount++
		}

		stats.TotalPromptTokens += m.PromptTokens
		stats.TotalCompletionTokens += m.CompletionTokens
		stats.TotalTokens += m.TotalTokens

		if m.ExecutionSeconds > 0 {
			latencies = append(latencies, m.ExecutionSeconds)
		}
	}

	count := float64(stats.Count)
	stats.AvgPromptTokens = float64(stats.TotalPromptTokens) / count
	stats.AvgCompletionTokens = float64(stats.TotalCompletionTokens) / count
	stats.AvgTotalTokens = float64(stats.TotalTokens) / count

	if len(latencies) > 0 {
		sort.Float64s(latencies)

		stats.LatencyMin = latencies[0]
		stats.LatencyMax = latencies[len(latencies)-1]

		var sum float64
		for _, l := range latencies {
			sum += l
		}
		stats.LatencyAvg = sum / float64(len(latencies))

		stats.LatencyP50 = percentile(latencies, 50)
		stats.LatencyP95 = percentile(latencies, 95)
		stats.LatencyP99 = percentile(latencies, 99)
	}

	return stats
}

// StageBreakdown returns summaries grouped by stage.
func (s *Store) StageBreakdown(f Filter) map[string]*Summary {
	metrics := s.List(f, 0)

	byStage := make(map[string][]Metric)
	for _, m := range metrics {
		if m.Stage != "" {
			byStage[m.Stage] = append(byStage[m.Stage], m)
		}
	}

	result := make(map[string]*Summary)
	for stage, stageMetrics := range byStage {
		summary := &Summary{Count: len(stageMetrics)}
		for _, m := range stageMetrics {
			summary.TotalTokens += m.TotalTokens
			summary.TotalTime += time.Duration(m.ExecutionSeconds * float64(time.Second))
			if m.Success {
				summary.SuccessCount++
			} else {
				summary.ErrorCount++
			}
		}
		if summary.Count > 0 {
			summary.AvgTokens = float64(summary.TotalTokens) / float64(summary.Count)
			summary.AvgTimeSeconds = summary.TotalTime.Seconds() / float64(summary.Count)
		}
		result[stage] = summary
	}

	return result
}

// TokensByProvider returns total token usage grouped by provider.
// Metrics without a provider (deterministic stages) are skipped.
func (s *Store) TokensByProvider(f Filter) map[string]int {
	breakdown := make(map[string]int)
	for _, m := range s.List(f, 0) {
		if m.Provider == "" {
			continue
		}
		breakdown[m.Provider] += m.TotalTokens
	}
	return breakdown
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
