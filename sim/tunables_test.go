package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTunablesValid(t *testing.T) {
	require.NoError(t, DefaultTunables().Validate())
}

func TestTunablesValidate(t *testing.T) {
	base := DefaultTunables()

	tests := []struct {
		name   string
		mutate func(*Tunables)
		ok     bool
	}{
		{"zero particles", func(tn *Tunables) { tn.ParticleCount = 0 }, false},
		{"negative particles", func(tn *Tunables) { tn.ParticleCount = -5 }, false},
		{"single particle", func(tn *Tunables) { tn.ParticleCount = 1 }, true},
		{"zero speed", func(tn *Tunables) { tn.Speed = 0 }, false},
		{"zero radius", func(tn *Tunables) { tn.Radius = 0 }, false},
		{"oversized radius", func(tn *Tunables) { tn.Radius = 1.5 }, false},
		{"full radius", func(tn *Tunables) { tn.Radius = 1 }, true},
		{"zero force", func(tn *Tunables) { tn.Force = 0 }, false},
		{"scheme out of range", func(tn *Tunables) { tn.Scheme = ColorScheme(7) }, false},
		{"ocean scheme", func(tn *Tunables) { tn.Scheme = SchemeOcean }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tn := base
			tc.mutate(&tn)
			err := tn.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseColorScheme(t *testing.T) {
	assert.Equal(t, SchemeNeon, ParseColorScheme("neon"))
	assert.Equal(t, SchemeFire, ParseColorScheme("fire"))
	assert.Equal(t, SchemeOcean, ParseColorScheme("ocean"))
	assert.Equal(t, SchemeNeon, ParseColorScheme(""))
	assert.Equal(t, SchemeNeon, ParseColorScheme("plasma"))
}

func TestColorSchemeRoundTrip(t *testing.T) {
	for _, s := range []ColorScheme{SchemeNeon, SchemeFire, SchemeOcean} {
		assert.Equal(t, s, ParseColorScheme(s.String()))
	}
	assert.Equal(t, "scheme(9)", ColorScheme(9).String())
}
