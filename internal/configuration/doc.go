/*
Package configuration defines the input configuration for the tallybench tools.

Tallybench exercises the election-results database with a randomized workload
and can seed it with synthetic regions, candidates, and votes. Configuration is
read from a YAML file and optionally merged with user-specified override files.

# Example YAML Configuration

	database:
	  postgres:
	    connection:
	      host: localhost
	      port: "5432"
	      user: postgres
	      password: psw
	      dbname: tallybench
	      sslmode: disable
	loadTest:
	  totalOperations: 10000
	  batchCount: 10
	  interBatchDelay: 200ms
	  pacingEvery: 1000
	  pacingPause: 50ms
	  progressInterval: 10s
	  resultsDirectory: results
	seed:
	  regions: 27
	  candidatesPerRegion: 12
	  votesPerCandidate: 2500
	  feedbackEntries: 500
	  copyBatchSize: 5000

# Validation

Each configuration struct has a Validate() method. Validation collects every
problem found rather than stopping at the first, so a bad config file can be
fixed in one pass.
*/
package configuration
