package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/siteaudit/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)

	assert.False(t, f.Test("https://example.com/broken.png"))

	f.Add("https://example.com/broken.png")

	assert.True(t, f.Test("https://example.com/broken.png"))
	assert.False(t, f.Test("https://example.com/ok.png"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)

	assert.False(t, f.TestAndAdd("https://example.com/a"), "first sighting")
	assert.True(t, f.TestAndAdd("https://example.com/a"), "second sighting")
	assert.True(t, f.Test("https://example.com/a"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.001)
	assert.Equal(t, uint(0), f.EstimatedCount())

	for i := range 3 {
		f.Add(fmt.Sprintf("https://example.com/page%d", i))
	}
	f.Add("https://example.com/page0")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 5000
		fpRate     = 0.001
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)
	for i := range numItems {
		f.Add(fmt.Sprintf("https://example.com/crawled/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://example.com/fresh/%d", i)) {
			falsePositives++
		}
	}

	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.005, "false positive rate %f too high", actualRate)
}
