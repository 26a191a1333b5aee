// loader.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// LoadTripCSVDir 读取目录下全部骑行数据CSV并纵向拼接为一个DataFrame
// 行顺序：按文件枚举顺序，文件内保持原始行序
// 所有列按字符串读入，数值语义由后续阶段按需解释
func LoadTripCSVDir(dir string) (dataframe.DataFrame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("读取数据目录失败 %s: %w", dir, err)
	}

	// 1. 枚举CSV文件（os.ReadDir已按文件名排序）
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("目录 %s 中没有CSV文件", dir)
	}

	// 2. 逐个解析并拼接，列名不一致视为致命错误
	var (
		combined dataframe.DataFrame
		schema   []string
	)

	for i, path := range files {
		df, err := readTripCSV(path)
		if err != nil {
			return dataframe.DataFrame{}, err
		}

		if i == 0 {
			schema = df.Names()
			combined = df
			continue
		}

		if err := checkSchema(schema, df.Names(), path); err != nil {
			return dataframe.DataFrame{}, err
		}

		combined = combined.RBind(df)
		if combined.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("拼接文件 %s 失败: %w", path, combined.Err)
		}
	}

	return combined, nil
}

// readTripCSV 解析单个CSV文件
func readTripCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开文件 %s 失败: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析文件 %s 失败: %w", path, df.Err)
	}

	return df, nil
}

// checkSchema 校验两份列名完全一致（同名同序）
func checkSchema(expected, got []string, path string) error {
	if len(expected) != len(got) {
		return fmt.Errorf("文件 %s 的列数与首个文件不一致: 期望%d列，实际%d列",
			path, len(expected), len(got))
	}
	for i := range expected {
		if expected[i] != got[i] {
			return fmt.Errorf("文件 %s 的列名与首个文件不一致: 第%d列期望 %q，实际 %q",
				path, i+1, expected[i], got[i])
		}
	}
	return nil
}

// ReadTripXLSX 读取xlsx格式的月度骑行数据（个别月份以xlsx发布）
// 首行为列名，其余为数据行
func ReadTripXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开xlsx文件失败: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx文件 %s 中没有工作表", filePath)
	}

	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		// 未指定或不存在时使用第一个工作表
		sheet = xlFile.Sheets[0]
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 没有数据行", sheet.Name)
	}

	// 首行为列名
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i].Value
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
