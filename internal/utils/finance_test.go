package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeEMI(t *testing.T) {
	t.Run("Standard amortization", func(t *testing.T) {
		// 12000 over 12 months at 12 percent: the per-month rate is 1
		// percent, which puts the raw installment just above 1066.
		emi := ComputeEMI(12000, 12, 12)
		assert.Equal(t, int64(1067), emi)
	})

	t.Run("Zero rate falls back to straight division", func(t *testing.T) {
		assert.Equal(t, int64(1000), ComputeEMI(12000, 0, 12))
		assert.Equal(t, int64(1091), ComputeEMI(12000, 0, 11))
	})

	t.Run("EMI times tenure covers the principal", func(t *testing.T) {
		for _, tenure := range []int32{3, 6, 12, 24} {
			emi := ComputeEMI(50000, 10, tenure)
			assert.GreaterOrEqual(t, emi*int64(tenure), int64(50000), "tenure %d", tenure)
		}
	})

	t.Run("Invalid inputs", func(t *testing.T) {
		assert.Equal(t, int64(0), ComputeEMI(0, 12, 12))
		assert.Equal(t, int64(0), ComputeEMI(-5000, 12, 12))
		assert.Equal(t, int64(0), ComputeEMI(12000, 12, 0))
	})
}

func TestBuildSchedule(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	schedule := BuildSchedule(start, 3)

	assert.Len(t, schedule, 3)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), schedule[0].DueOn)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), schedule[1].DueOn)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), schedule[2].DueOn)
	for i, entry := range schedule {
		assert.Equal(t, int32(i), entry.Seq)
		assert.False(t, entry.Paid)
	}
}

func TestTrustMultiplier(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{0, 0},
		{39.9, 0},
		{40, 1.5},
		{54.9, 1.5},
		{55, 2.0},
		{69.9, 2.0},
		{70, 2.5},
		{79.9, 2.5},
		{80, 3.0},
		{89.9, 3.0},
		{90, 3.5},
		{100, 3.5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TrustMultiplier(c.score), "score %.1f", c.score)
	}
}

func TestEligibleAmount(t *testing.T) {
	t.Run("Savings times tier multiplier", func(t *testing.T) {
		// 5000 saved with a score in the 70-80 band gives 2.5x.
		assert.Equal(t, int64(12500), EligibleAmount(5000, 72.5, 90000))
	})

	t.Run("Below minimum score", func(t *testing.T) {
		assert.Equal(t, int64(0), EligibleAmount(50000, 35, 90000))
	})

	t.Run("Clamped to group cap", func(t *testing.T) {
		assert.Equal(t, int64(90000), EligibleAmount(80000, 95, 90000))
		assert.Equal(t, int64(40000), EligibleAmount(80000, 95, 40000))
	})

	t.Run("Default cap when group has none", func(t *testing.T) {
		assert.Equal(t, DefaultLoanCap, EligibleAmount(1000000, 95, 0))
	})

	t.Run("Never decreases as trust rises", func(t *testing.T) {
		prev := int64(0)
		for score := 0.0; score <= 100; score += 2.5 {
			eligible := EligibleAmount(10000, score, 90000)
			assert.GreaterOrEqual(t, eligible, prev, "score %.1f", score)
			prev = eligible
		}
	})

	t.Run("Never decreases as savings rise", func(t *testing.T) {
		prev := int64(0)
		for savings := int64(0); savings <= 50000; savings += 5000 {
			eligible := EligibleAmount(savings, 85, 900000)
			assert.GreaterOrEqual(t, eligible, prev, "savings %d", savings)
			prev = eligible
		}
	})
}
