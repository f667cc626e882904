package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientUnreachableAddress(t *testing.T) {
	client, err := NewClient("127.0.0.1:0")
	assert.Nil(t, client)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
