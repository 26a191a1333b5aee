// clean.go
package processor

import (
	"fmt"

	"RideInsight/src/config"
	"RideInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CleanStats 各清洗规则剔除的行数，只记录不报错
type CleanStats struct {
	InputRows      int // 清洗前行数
	MissingStation int // 站点字段缺失剔除
	DisallowedType int // 停用车辆类型剔除
	NonPositive    int // 非正时长剔除
	OutputRows     int // 清洗后行数
}

func (s CleanStats) String() string {
	return fmt.Sprintf("输入%d行，剔除：站点缺失%d、停用类型%d、非正时长%d，输出%d行",
		s.InputRows, s.MissingStation, s.DisallowedType, s.NonPositive, s.OutputRows)
}

// Cleaner 对富化后的数据做列裁剪与行过滤
// 只做子集操作，不修改任何存留字段值，对自身输出再次执行不改变结果
type Cleaner struct {
	Dcfg *config.DataConfig
}

func NewCleaner(dcfg *config.DataConfig) *Cleaner {
	return &Cleaner{Dcfg: dcfg}
}

// 坐标列语义已失效，无条件移除
var coordColumns = []string{"start_lat", "start_lng", "end_lat", "end_lng"}

// 站点四字段缺失即剔除：坐标反查站点精度不足，缺失也往往伴随时长数据损坏，
// 因此选择剔除而非插补
var stationColumns = []string{
	"start_station_name", "start_station_id",
	"end_station_name", "end_station_id",
}

// Clean 执行清洗，返回清洗后的数据与剔除统计
func (c *Cleaner) Clean(df dataframe.DataFrame) (dataframe.DataFrame, CleanStats) {
	stats := CleanStats{InputRows: df.Nrow()}

	// 1. 移除坐标列（列可能已在上一轮被移除）
	var dropCols []string
	for _, logical := range coordColumns {
		col := c.Dcfg.GetTripData(logical)
		if utils.HasColumn(df, col) {
			dropCols = append(dropCols, col)
		}
	}
	if len(dropCols) > 0 {
		df = df.Drop(dropCols)
	}

	// 2. 站点字段完整性过滤
	before := df.Nrow()
	for _, logical := range stationColumns {
		col := c.Dcfg.GetTripData(logical)
		df = df.Filter(dataframe.F{
			Colname:    col,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && !utils.IsMissing(el.String())
			},
		})
	}
	stats.MissingStation = before - df.Nrow()

	// 3. 剔除停用的车辆类型
	before = df.Nrow()
	rideableCol := c.Dcfg.GetTripData("rideable_type")
	df = df.Filter(dataframe.F{
		Colname:    rideableCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !c.Dcfg.IsDisallowed(el.String())
		},
	})
	stats.DisallowedType = before - df.Nrow()

	// 4. 剔除非正时长
	before = df.Nrow()
	lengthCol := c.Dcfg.GetTripData("ride_length")
	df = df.Filter(dataframe.F{
		Colname:    lengthCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return el.Float() > 0
		},
	})
	stats.NonPositive = before - df.Nrow()

	stats.OutputRows = df.Nrow()
	return df, stats
}
