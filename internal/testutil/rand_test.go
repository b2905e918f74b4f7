package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedRand_ReplaysInOrder(t *testing.T) {
	r := NewScriptedRand(0.1, 0.7, 0.3)

	assert.Equal(t, 0.1, r.Float64())
	assert.Equal(t, 0.7, r.Float64())
	assert.Equal(t, 0.3, r.Float64())
	assert.Equal(t, 3, r.Draws())
}

func TestScriptedRand_Cycles(t *testing.T) {
	r := NewScriptedRand(0.25, 0.75)

	got := []float64{r.Float64(), r.Float64(), r.Float64(), r.Float64()}
	assert.Equal(t, []float64{0.25, 0.75, 0.25, 0.75}, got)
}

func TestScriptedRand_EmptyReturnsZero(t *testing.T) {
	r := NewScriptedRand()
	assert.Equal(t, 0.0, r.Float64())
	assert.Equal(t, 0.0, r.Float64())
}

func TestScriptedRand_Reset(t *testing.T) {
	r := NewScriptedRand(0.9, 0.2)
	r.Float64()
	r.Float64()

	r.Reset()

	assert.Equal(t, 0, r.Draws())
	assert.Equal(t, 0.9, r.Float64())
}

func TestScriptedRand_ThreadSafe(t *testing.T) {
	r := NewScriptedRand(0.5)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, 0.5, r.Float64())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, r.Draws())
}
