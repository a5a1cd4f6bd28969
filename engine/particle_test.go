package engine

import (
	"math"
	"testing"
)

func TestParticleAlive(t *testing.T) {
	tests := []struct {
		name string
		w    float64
		want bool
	}{
		{"positive weight", 1.0, true},
		{"zero weight", 0, false},
		{"dead sentinel", Dead, false},
		{"negative weight", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{W: tt.w}
			if got := p.Alive(); got != tt.want {
				t.Errorf("Alive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParticleSpeed(t *testing.T) {
	p := Particle{V: [3]float64{3, 4, 0}}
	if got := p.Speed(); math.Abs(got-5) > 1e-9 {
		t.Errorf("Speed() = %v, want 5", got)
	}
}

func TestParticleKineticEnergy(t *testing.T) {
	p := Particle{V: [3]float64{2, 0, 0}}
	got := p.KineticEnergy(2.0)
	want := 0.5 * 2.0 * 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("KineticEnergy() = %v, want %v", got, want)
	}
}
