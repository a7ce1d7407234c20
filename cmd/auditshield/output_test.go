package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
)

func TestShouldColor(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, shouldColor(&buf, config.ColorAlways))
	assert.False(t, shouldColor(&buf, config.ColorNever))
	// A buffer is never a terminal.
	assert.False(t, shouldColor(&buf, config.ColorAuto))
}

func TestShouldColor_NoColorEnv(t *testing.T) {
	t.Setenv(config.EnvNoColor, "1")
	assert.False(t, shouldColor(&bytes.Buffer{}, config.ColorAuto))
	assert.True(t, shouldColor(&bytes.Buffer{}, config.ColorAlways))
}

func TestPrinter_Risk(t *testing.T) {
	plain := &printer{}
	assert.Equal(t, "HIGH", plain.risk(entities.RiskHigh))

	colored := &printer{useColors: true}
	assert.Equal(t, colorGreen+"LOW"+colorReset, colored.risk(entities.RiskLow))
	assert.Equal(t, colorYellow+"MEDIUM"+colorReset, colored.risk(entities.RiskMedium))
	assert.Equal(t, colorRed+"CRITICAL"+colorReset, colored.risk(entities.RiskCritical))
}

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.Success("saved %d", 3)
	p.Warning("careful")

	assert.Equal(t, "✓ saved 3\n! careful\n", buf.String())
}

func TestNewPrinter_FlagOverridesConfig(t *testing.T) {
	old := globalColor
	t.Cleanup(func() { globalColor = old })

	globalColor = config.ColorAlways
	assert.True(t, newPrinter(&bytes.Buffer{}, config.ColorNever).useColors)

	globalColor = ""
	assert.False(t, newPrinter(&bytes.Buffer{}, config.ColorNever).useColors)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestMissingFields(t *testing.T) {
	assert.Equal(t, "add a comment and a level (menor/mayor)", missingFields(true, true))
	assert.Equal(t, "add a comment", missingFields(true, false))
	assert.Equal(t, "choose a level (menor/mayor)", missingFields(false, true))
	assert.Empty(t, missingFields(false, false))
}
