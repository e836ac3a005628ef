package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFeeSchedule(t *testing.T) {
	fees := DefaultFeeSchedule()

	assert.Equal(t, int64(20000), fees.BaseServiceFeeCents)
	assert.Equal(t, int64(50000), fees.RushFeeCents)
	assert.Equal(t, int64(22500), fees.Section8FeeCents)
	assert.Equal(t, int64(10000), fees.GracePeriodFeeCents)
	assert.Equal(t, int64(20000), fees.Section15FeeCents)
	assert.Equal(t, int64(22500), fees.Section9FeeCents)

	assert.NoError(t, validateFeeSchedule(fees))
}

func TestValidateFeeSchedule(t *testing.T) {
	fees := DefaultFeeSchedule()
	fees.RushFeeCents = 0
	assert.Error(t, validateFeeSchedule(fees))

	fees = DefaultFeeSchedule()
	fees.Section9FeeCents = -1
	assert.Error(t, validateFeeSchedule(fees))
}

func TestStaticFeeScheduleHolder(t *testing.T) {
	fees := DefaultFeeSchedule()
	fees.BaseServiceFeeCents = 30000

	holder := NewStaticFeeScheduleHolder(fees)
	assert.Equal(t, int64(30000), holder.Get().BaseServiceFeeCents)
}
