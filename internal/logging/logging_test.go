package logging

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	log.Debug("layer loaded")
	assert.Contains(t, buf.String(), "layer loaded")

	buf.Reset()
	Setup(&buf, false)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
