package configuration

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

func (c TallybenchConfig) Validate() error {
	var result *multierror.Error

	if err := c.Database.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.LoadTest.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Seed.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func (c DatabaseConfig) Validate() error {
	hasPostgres := len(c.Postgres.Connection) > 0
	if hasPostgres && c.InMemory {
		return errors.New("database: only one of postgres and inMemory may be configured")
	}
	if !hasPostgres && !c.InMemory {
		return errors.New("database: no backend configured")
	}
	return nil
}

func (c LoadTestConfig) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(c); err != nil {
		result = multierror.Append(result, tagErrors("loadTest", err)...)
	}

	if c.TotalOperations > 0 && c.BatchCount > 0 && c.TotalOperations < c.BatchCount {
		result = multierror.Append(result,
			errors.Errorf("loadTest: totalOperations (%d) must be at least batchCount (%d)",
				c.TotalOperations, c.BatchCount))
	}
	if c.PacingEvery > 0 && c.PacingPause <= 0 {
		result = multierror.Append(result,
			errors.New("loadTest: pacingPause must be positive when pacingEvery is set"))
	}

	return result.ErrorOrNil()
}

func (c SeedConfig) Validate() error {
	var result *multierror.Error
	if err := validate.Struct(c); err != nil {
		result = multierror.Append(result, tagErrors("seed", err)...)
	}
	return result.ErrorOrNil()
}

func tagErrors(section string, err error) []error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	result := make([]error, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		result = append(result, errors.Errorf("%s: field %s has invalid value %v: %s",
			section, stripPrefix(fieldErr.Namespace()), fieldErr.Value(), fieldErr.Tag()))
	}
	return result
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}

// LogValidationErrors writes each collected validation error as its own log line.
func LogValidationErrors(err error) {
	if err == nil {
		return
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			log.Errorf("ConfigError: %v", e)
		}
		return
	}
	log.Errorf("ConfigError: %v", err)
}
