package diagnostics

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewLogReporter(log.New(&buf, "", 0))

	reporter.Report(nil)
	assert.Equal(t, 0, reporter.Count())
	assert.Empty(t, buf.String())

	first := errors.New("views request failed")
	second := errors.New("stargazers request failed")
	reporter.Report(first)
	reporter.Report(second)

	assert.Equal(t, 2, reporter.Count())
	assert.Equal(t, second, reporter.Last())
	assert.Contains(t, buf.String(), "diagnostics: views request failed")
	assert.Contains(t, buf.String(), "diagnostics: stargazers request failed")
}
