package metrics

import (
	"sort"
	"time"
)

// Report is the immutable summary derived from an Aggregate snapshot once all
// batches have settled. Built once per run, then serialized.
type Report struct {
	CompletedOperations int64             `json:"completedOperations"`
	FailedOperations    int64             `json:"failedOperations"`
	SuccessRate         float64           `json:"successRate"`
	AverageDuration     time.Duration     `json:"averageDuration"`
	MinDuration         time.Duration     `json:"minDuration"`
	MaxDuration         time.Duration     `json:"maxDuration"`
	OperationsPerSecond float64           `json:"operationsPerSecond"`
	PerformanceScore    float64           `json:"performanceScore"`
	WallClock           time.Duration     `json:"wallClock"`
	Operations          []OperationReport `json:"operations"`
	ErrorSample         []string          `json:"errorSample,omitempty"`
}

type OperationReport struct {
	Name            string        `json:"name"`
	Executed        int64         `json:"executed"`
	Failed          int64         `json:"failed"`
	AverageDuration time.Duration `json:"averageDuration"`
	TotalItems      int64         `json:"totalItems"`
}

// BuildReport reduces a snapshot and the run's wall-clock time to the final report.
func BuildReport(s Snapshot, wallClock time.Duration) Report {
	report := Report{
		CompletedOperations: s.Completed,
		FailedOperations:    s.Failed,
		MinDuration:         s.MinDuration,
		MaxDuration:         s.MaxDuration,
		WallClock:           wallClock,
		ErrorSample:         s.ErrorSample,
	}

	if s.Completed > 0 {
		report.SuccessRate = float64(s.Completed-s.Failed) / float64(s.Completed) * 100
		report.AverageDuration = s.TotalDuration / time.Duration(s.Completed)
	}
	if wallClock > 0 {
		report.OperationsPerSecond = float64(s.Completed) / wallClock.Seconds()
	}
	report.PerformanceScore = performanceScore(
		report.SuccessRate,
		report.AverageDuration,
		report.OperationsPerSecond,
	)

	report.Operations = make([]OperationReport, 0, len(s.PerOperation))
	for name, totals := range s.PerOperation {
		opReport := OperationReport{
			Name:       name,
			Executed:   totals.Executed,
			Failed:     totals.Failed,
			TotalItems: totals.TotalItems,
		}
		if totals.Executed > 0 {
			opReport.AverageDuration = totals.TotalDuration / time.Duration(totals.Executed)
		}
		report.Operations = append(report.Operations, opReport)
	}
	sort.Slice(report.Operations, func(i, j int) bool {
		return report.Operations[i].Name < report.Operations[j].Name
	})

	return report
}

// performanceScore reduces the three headline metrics to a single value in
// [0, 10]: up to 4 points for success rate, 3 for average latency, and 3 for
// throughput, each awarded in bands.
func performanceScore(successRate float64, avgDuration time.Duration, opsPerSecond float64) float64 {
	score := successRateScore(successRate) + latencyScore(avgDuration) + throughputScore(opsPerSecond)
	if score > 10 {
		score = 10
	}
	return score
}

func successRateScore(successRate float64) float64 {
	switch {
	case successRate >= 99:
		return 4
	case successRate >= 95:
		return 3
	case successRate >= 90:
		return 2
	case successRate >= 80:
		return 1
	default:
		return 0
	}
}

func latencyScore(avgDuration time.Duration) float64 {
	avgMillis := float64(avgDuration) / float64(time.Millisecond)
	switch {
	case avgMillis <= 50:
		return 3
	case avgMillis <= 100:
		return 2.4
	case avgMillis <= 200:
		return 1.8
	case avgMillis <= 500:
		return 1.2
	case avgMillis <= 1000:
		return 0.6
	default:
		return 0
	}
}

func throughputScore(opsPerSecond float64) float64 {
	switch {
	case opsPerSecond >= 2000:
		return 3
	case opsPerSecond >= 1500:
		return 2.4
	case opsPerSecond >= 1000:
		return 1.8
	case opsPerSecond >= 500:
		return 1.2
	case opsPerSecond >= 100:
		return 0.6
	default:
		return 0
	}
}
