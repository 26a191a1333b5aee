package utils

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// 骑行数据时间戳的可接受格式（同一本地时区的墙钟时间，不做时区推断）
var tripTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn 判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// ParseTripTime 解析骑行记录的时间戳字符串
func ParseTripTime(s string) (time.Time, error) {
	for _, layout := range tripTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间戳 %q", s)
}

// IsMissing 按CSV语义判断字段是否缺失（空串即为空值）
func IsMissing(s string) bool {
	return s == "" || s == "NA" || s == "NaN"
}
