package metrics

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tallyhq/tallybench/internal/configuration"
)

const SchemaVersion = "1.0"

// TestResult is the JSON document written once per run: metadata, a snapshot
// of the configuration the run was performed with, and the derived report.
type TestResult struct {
	Metadata      Metadata              `json:"metadata"`
	Configuration ConfigurationSnapshot `json:"configuration"`
	Results       Report                `json:"results"`
}

type Metadata struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	RunID     string `json:"runId"`
}

type ConfigurationSnapshot struct {
	DatabaseType     string `json:"databaseType"`
	TotalOperations  int    `json:"totalOperations"`
	BatchCount       int    `json:"batchCount"`
	InterBatchDelay  string `json:"interBatchDelay"`
	PacingEvery      int    `json:"pacingEvery,omitempty"`
	PacingPause      string `json:"pacingPause,omitempty"`
	RandomSeed       int64  `json:"randomSeed,omitempty"`
	ResultsDirectory string `json:"resultsDirectory"`
}

// BuildTestResult assembles the serializable result document.
func BuildTestResult(config configuration.TallybenchConfig, runID string, report Report) TestResult {
	return TestResult{
		Metadata: Metadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   SchemaVersion,
			RunID:     runID,
		},
		Configuration: ConvertConfigurationToSnapshot(config),
		Results:       report,
	}
}

func ConvertConfigurationToSnapshot(config configuration.TallybenchConfig) ConfigurationSnapshot {
	databaseType := "postgres"
	if config.Database.InMemory {
		databaseType = "inmemory"
	}

	snapshot := ConfigurationSnapshot{
		DatabaseType:     databaseType,
		TotalOperations:  config.LoadTest.TotalOperations,
		BatchCount:       config.LoadTest.BatchCount,
		InterBatchDelay:  config.LoadTest.InterBatchDelay.String(),
		PacingEvery:      config.LoadTest.PacingEvery,
		RandomSeed:       config.LoadTest.RandomSeed,
		ResultsDirectory: config.LoadTest.ResultsDirectory,
	}
	if config.LoadTest.PacingEvery > 0 {
		snapshot.PacingPause = config.LoadTest.PacingPause.String()
	}
	return snapshot
}

// WriteTestResultToFile serializes the result as indented JSON. A write
// failure here is a run-level fatal error.
func WriteTestResultToFile(result TestResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
