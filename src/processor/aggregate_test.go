package processor

import (
	"testing"

	"RideInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanedFrame 直接构造清洗后形态的最小数据集
func cleanedFrame(segments, weekdays, months []string, lengths []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(segments, series.String, "member_casual"),
		series.New(weekdays, series.String, "day_of_week"),
		series.New(months, series.String, "month"),
		series.New(lengths, series.Float, "ride_length"),
	)
}

// 两条member周一记录，时长100和300 → (member, Monday) = {2, 200.0}
func TestAggregateMeanAndCount(t *testing.T) {
	df := cleanedFrame(
		[]string{"member", "member"},
		[]string{"Monday", "Monday"},
		[]string{"06", "06"},
		[]float64{100, 300},
	)

	buckets, err := NewAggregator(config.DefaultDataConfig()).AggregateBy(df, DimWeekday)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	assert.Equal(t, "member", buckets[0].Segment)
	assert.Equal(t, "Monday", buckets[0].Value)
	assert.Equal(t, 2, buckets[0].RideCount)
	assert.Equal(t, 200.0, buckets[0].MeanDuration)
}

// 周维度按周日开头的固定顺序输出，而非字典序
func TestAggregateWeekdayOrdering(t *testing.T) {
	df := cleanedFrame(
		[]string{"member", "casual", "member", "casual"},
		[]string{"Saturday", "Sunday", "Monday", "Monday"},
		[]string{"01", "01", "01", "01"},
		[]float64{60, 120, 180, 240},
	)

	buckets, err := NewAggregator(config.DefaultDataConfig()).AggregateBy(df, DimWeekday)
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	assert.Equal(t, "Sunday", buckets[0].Value)
	assert.Equal(t, "casual", buckets[0].Segment)
	assert.Equal(t, "Monday", buckets[1].Value)
	assert.Equal(t, "casual", buckets[1].Segment)
	assert.Equal(t, "Monday", buckets[2].Value)
	assert.Equal(t, "member", buckets[2].Segment)
	assert.Equal(t, "Saturday", buckets[3].Value)
}

// 月维度按一月到十二月输出英文月名
func TestAggregateMonthOrdering(t *testing.T) {
	df := cleanedFrame(
		[]string{"casual", "casual", "member"},
		[]string{"Monday", "Tuesday", "Friday"},
		[]string{"12", "02", "07"},
		[]float64{100, 200, 300},
	)

	buckets, err := NewAggregator(config.DefaultDataConfig()).AggregateBy(df, DimMonth)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, "February", buckets[0].Value)
	assert.Equal(t, "July", buckets[1].Value)
	assert.Equal(t, "December", buckets[2].Value)
}

// 各Bucket行数之和等于清洗后总行数
func TestAggregateTotalCount(t *testing.T) {
	df := cleanedFrame(
		[]string{"member", "casual", "member", "casual", "member"},
		[]string{"Monday", "Monday", "Tuesday", "Sunday", "Sunday"},
		[]string{"03", "03", "04", "05", "05"},
		[]float64{100, 200, 300, 400, 500},
	)

	agg := NewAggregator(config.DefaultDataConfig())

	for _, dim := range []Dimension{DimWeekday, DimMonth} {
		buckets, err := agg.AggregateBy(df, dim)
		require.NoError(t, err)
		assert.Equal(t, df.Nrow(), TotalRides(buckets), "维度 %s", dim)
	}
}

// 清洗后为空集时产出零个Bucket，不报错
func TestAggregateEmptyInput(t *testing.T) {
	df := enrichedFrame(t,
		rawTripRow("r1", "docked_bike",
			"2021-06-15 08:00:00", "2021-06-15 08:15:30", "B St", "member"),
	)
	cleaned, _ := NewCleaner(config.DefaultDataConfig()).Clean(df)
	require.Equal(t, 0, cleaned.Nrow())

	buckets, err := NewAggregator(config.DefaultDataConfig()).AggregateBy(cleaned, DimWeekday)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestAggregateUnknownDimension(t *testing.T) {
	df := cleanedFrame(
		[]string{"member"}, []string{"Monday"}, []string{"01"}, []float64{100},
	)

	_, err := NewAggregator(config.DefaultDataConfig()).AggregateBy(df, Dimension("year"))
	require.Error(t, err)
}
