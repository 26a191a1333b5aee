// excel.go
package report

import (
	"fmt"

	"RideInsight/src/processor"

	"github.com/xuri/excelize/v2"
)

const (
	weekdaySheet = "按周汇总"
	monthSheet   = "按月汇总"
	statsSheet   = "清洗统计"
)

// SaveSummaryWorkbook 将聚合结果与清洗统计写入xlsx汇总工作簿
func SaveSummaryWorkbook(path string, weekday, month []processor.Bucket, stats processor.CleanStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", weekdaySheet); err != nil {
		return fmt.Errorf("重命名工作表失败: %w", err)
	}
	if err := writeBucketSheet(f, weekdaySheet, weekday); err != nil {
		return err
	}

	if _, err := f.NewSheet(monthSheet); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	if err := writeBucketSheet(f, monthSheet, month); err != nil {
		return err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	writeStatsSheet(f, statsSheet, stats)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeBucketSheet(f *excelize.File, sheetName string, buckets []processor.Bucket) error {
	headers := []string{"客群", "维度值", "骑行次数", "平均时长（秒）"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	for rowIdx, b := range buckets {
		values := []interface{}{b.Segment, b.Value, b.RideCount, b.MeanDuration}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("写入单元格失败: %w", err)
			}
		}
	}
	return nil
}

func writeStatsSheet(f *excelize.File, sheetName string, stats processor.CleanStats) {
	rows := [][]interface{}{
		{"输入行数", stats.InputRows},
		{"站点缺失剔除", stats.MissingStation},
		{"停用类型剔除", stats.DisallowedType},
		{"非正时长剔除", stats.NonPositive},
		{"输出行数", stats.OutputRows},
	}

	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			f.SetCellValue(sheetName, cell, v)
		}
	}
}
