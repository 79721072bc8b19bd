package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateConnectionString(t *testing.T) {
	result := CreateConnectionString(map[string]string{"host": "localhost"})
	assert.Equal(t, "host='localhost' ", result)
}

func TestCreateConnectionString_EscapesQuotesAndBackslashes(t *testing.T) {
	result := CreateConnectionString(map[string]string{"password": `p'w\d`})
	assert.Equal(t, `password='p\'w\\d' `, result)
}
