package engine

import (
	"math"
	"math/rand"
	"testing"
)

func TestMarsagliaScatterPreservesSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := MarsagliaScatter(rng, 7.0)
		speed := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		if math.Abs(speed-7.0) > 1e-9 {
			t.Fatalf("scatter %d: speed = %v, want 7.0", i, speed)
		}
	}
}

func TestMarsagliaScatterIsotropic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var sum [3]float64
	const n = 20000
	for i := 0; i < n; i++ {
		v := MarsagliaScatter(rng, 1.0)
		for d := 0; d < 3; d++ {
			sum[d] += v[d]
		}
	}
	for d := 0; d < 3; d++ {
		mean := sum[d] / n
		if math.Abs(mean) > 0.05 {
			t.Errorf("axis %d mean = %v, want ~0 (isotropic)", d, mean)
		}
	}
}

func TestExciteLosesEnergy(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	mass := 9.1e-31
	p := &Particle{V: [3]float64{1e6, 0, 0}}
	coll := CollisionDescriptor{Type: Excite, EnLoss: 1e-19, PartMass: mass}

	keBefore := p.KineticEnergy(mass)
	out, n := ApplyKernel(p, rng, coll)
	if n != 1 {
		t.Fatalf("Excite produced %d particles, want 1", n)
	}
	keAfter := out[0].KineticEnergy(mass)
	if keAfter > keBefore {
		t.Errorf("excite increased energy: before %v after %v", keBefore, keAfter)
	}
	if math.Abs((keBefore-keAfter)-coll.EnLoss) > keBefore*1e-6+1e-30 {
		t.Errorf("energy loss = %v, want %v", keBefore-keAfter, coll.EnLoss)
	}
}

func TestExciteFloorsAtZeroEnergy(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	mass := 9.1e-31
	p := &Particle{V: [3]float64{1, 0, 0}} // tiny KE
	coll := CollisionDescriptor{Type: Excite, EnLoss: 1e-19, PartMass: mass}

	out, n := ApplyKernel(p, rng, coll)
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if out[0].Speed() != 0 {
		t.Errorf("speed = %v, want 0 when en_loss exceeds available KE", out[0].Speed())
	}
}

func TestIonizeKeepsParentWeightSplitsIntoTwo(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	mass := 9.1e-31
	p := &Particle{V: [3]float64{2e6, 0, 0}, W: 42, ID: 7}
	coll := CollisionDescriptor{Type: Ionize, EnLoss: 1e-19, PartMass: mass}

	out, n := ApplyKernel(p, rng, coll)
	if n != 2 {
		t.Fatalf("Ionize produced %d particles, want 2", n)
	}
	if out[0].W != p.W || out[1].W != p.W {
		t.Errorf("ionize must not mutate weight of either offspring: got %v, %v want both %v", out[0].W, out[1].W, p.W)
	}

	keEach := out[0].KineticEnergy(mass)
	keTotal := p.KineticEnergy(mass) - coll.EnLoss
	if math.Abs(2*keEach-keTotal) > math.Abs(keTotal)*1e-6+1e-30 {
		t.Errorf("2*keEach = %v, want keTotal = %v", 2*keEach, keTotal)
	}
}

func TestAttachProducesZero(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	p := &Particle{V: [3]float64{1, 0, 0}}
	coll := CollisionDescriptor{Type: Attach}
	_, n := ApplyKernel(p, rng, coll)
	if n != 0 {
		t.Errorf("Attach produced %d particles, want 0", n)
	}
}
