package processor

import (
	"testing"

	"RideInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawTripFrame(rows ...[]string) dataframe.DataFrame {
	records := [][]string{{
		"ride_id", "rideable_type", "started_at", "ended_at",
		"start_station_name", "start_station_id",
		"end_station_name", "end_station_id",
		"start_lat", "start_lng", "end_lat", "end_lng",
		"member_casual",
	}}
	records = append(records, rows...)
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

func rawTripRow(rideID, rideable, started, ended, endStationName, segment string) []string {
	return []string{
		rideID, rideable, started, ended,
		"A St", "1", endStationName, "2",
		"41.90", "-87.62", "41.91", "-87.63",
		segment,
	}
}

func TestEnrichDerivedFields(t *testing.T) {
	df := rawTripFrame(
		rawTripRow("r1", "classic_bike",
			"2021-06-15T08:00:00", "2021-06-15T08:15:30", "B St", "member"),
	)

	enricher := NewEnricher(config.DefaultDataConfig())
	out, err := enricher.Enrich(df)
	require.NoError(t, err)

	assert.Equal(t, "2021-06-15", out.Col("date").Records()[0])
	assert.Equal(t, "2021", out.Col("year").Records()[0])
	assert.Equal(t, "06", out.Col("month").Records()[0])
	assert.Equal(t, "15", out.Col("day").Records()[0])
	assert.Equal(t, "Tuesday", out.Col("day_of_week").Records()[0])
	assert.Equal(t, 930.0, out.Col("ride_length").Float()[0])
}

// 负时长是合法中间状态，富化阶段不得截断或剔除
func TestEnrichKeepsNegativeDuration(t *testing.T) {
	df := rawTripFrame(
		rawTripRow("r1", "classic_bike",
			"2021-06-15 08:15:00", "2021-06-15 08:00:00", "B St", "member"),
	)

	out, err := NewEnricher(config.DefaultDataConfig()).Enrich(df)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Nrow())
	assert.Equal(t, -900.0, out.Col("ride_length").Float()[0])
}

// date与day_of_week必须派生自同一瞬时值，跨午夜行不得错位
func TestEnrichDateWeekdayConsistency(t *testing.T) {
	df := rawTripFrame(
		rawTripRow("r1", "classic_bike",
			"2021-06-15 23:59:59", "2021-06-16 00:10:00", "B St", "casual"),
	)

	out, err := NewEnricher(config.DefaultDataConfig()).Enrich(df)
	require.NoError(t, err)

	assert.Equal(t, "2021-06-15", out.Col("date").Records()[0])
	assert.Equal(t, "Tuesday", out.Col("day_of_week").Records()[0])
}

// 富化是全量操作：每行输入恰好产出一行，派生字段全部非空
func TestEnrichTotal(t *testing.T) {
	df := rawTripFrame(
		rawTripRow("r1", "classic_bike",
			"2021-01-03 10:00:00", "2021-01-03 10:20:00", "B St", "member"),
		rawTripRow("r2", "electric_bike",
			"2021-07-09 18:30:00", "2021-07-09 18:31:00", "", "casual"),
		rawTripRow("r3", "docked_bike",
			"2021-12-25 06:00:00", "2021-12-25 05:00:00", "B St", "casual"),
	)

	out, err := NewEnricher(config.DefaultDataConfig()).Enrich(df)
	require.NoError(t, err)
	require.Equal(t, 3, out.Nrow())

	weekdaySet := map[string]bool{
		"Sunday": true, "Monday": true, "Tuesday": true, "Wednesday": true,
		"Thursday": true, "Friday": true, "Saturday": true,
	}
	for _, col := range []string{"date", "year", "month", "day", "day_of_week"} {
		for _, v := range out.Col(col).Records() {
			assert.NotEmpty(t, v, col)
		}
	}
	for _, v := range out.Col("day_of_week").Records() {
		assert.True(t, weekdaySet[v], "非法星期名 %q", v)
	}
}

func TestEnrichBadTimestamp(t *testing.T) {
	df := rawTripFrame(
		rawTripRow("r1", "classic_bike", "not-a-time", "2021-06-15 08:00:00", "B St", "member"),
	)

	_, err := NewEnricher(config.DefaultDataConfig()).Enrich(df)
	require.Error(t, err)
}
