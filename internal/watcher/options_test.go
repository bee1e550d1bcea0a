package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	assert.Equal(t, 100*time.Millisecond, opts.SettleDelay, "Default settle delay should be 100ms")
}

func TestOptions_CustomValues(t *testing.T) {
	opts := Options{SettleDelay: 200 * time.Millisecond}
	opts.setDefaults()

	assert.Equal(t, 200*time.Millisecond, opts.SettleDelay, "Custom settle delay should be preserved")
}
