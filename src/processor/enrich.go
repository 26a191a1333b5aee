// enrich.go
package processor

import (
	"fmt"

	"RideInsight/src/config"
	"RideInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Enricher 从started_at/ended_at派生日历列与时长列
type Enricher struct {
	Dcfg *config.DataConfig
}

func NewEnricher(dcfg *config.DataConfig) *Enricher {
	return &Enricher{Dcfg: dcfg}
}

// Enrich 为每一行派生六个字段：
// date、year、month、day、day_of_week、ride_length（秒，保留符号）
//
// date与day_of_week必须取自同一个瞬时值started_at，避免截断日期后
// 跨午夜行上两者不一致；负时长在此阶段是合法中间状态，由清洗阶段处理
func (e *Enricher) Enrich(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, df.Err
	}

	startCol := e.Dcfg.GetTripData("started_at")
	endCol := e.Dcfg.GetTripData("ended_at")
	for _, col := range []string{startCol, endCol} {
		if !utils.HasColumn(df, col) {
			return df, fmt.Errorf("缺少时间戳列 %q", col)
		}
	}

	started := df.Col(startCol).Records()
	ended := df.Col(endCol).Records()

	n := df.Nrow()
	dates := make([]string, n)
	years := make([]string, n)
	months := make([]string, n)
	days := make([]string, n)
	weekdays := make([]string, n)
	lengths := make([]float64, n)

	for i := 0; i < n; i++ {
		start, err := utils.ParseTripTime(started[i])
		if err != nil {
			return df, fmt.Errorf("第%d行 %s 解析失败: %w", i+1, startCol, err)
		}
		end, err := utils.ParseTripTime(ended[i])
		if err != nil {
			return df, fmt.Errorf("第%d行 %s 解析失败: %w", i+1, endCol, err)
		}

		dates[i] = start.Format("2006-01-02")
		years[i] = start.Format("2006")
		months[i] = start.Format("01")
		days[i] = start.Format("02")
		weekdays[i] = start.Weekday().String()
		lengths[i] = end.Sub(start).Seconds()
	}

	df = df.Mutate(series.New(dates, series.String, e.Dcfg.GetTripData("date"))).
		Mutate(series.New(years, series.String, e.Dcfg.GetTripData("year"))).
		Mutate(series.New(months, series.String, e.Dcfg.GetTripData("month"))).
		Mutate(series.New(days, series.String, e.Dcfg.GetTripData("day"))).
		Mutate(series.New(weekdays, series.String, e.Dcfg.GetTripData("day_of_week"))).
		Mutate(series.New(lengths, series.Float, e.Dcfg.GetTripData("ride_length")))

	if df.Err != nil {
		return df, fmt.Errorf("派生列失败: %w", df.Err)
	}
	return df, nil
}
