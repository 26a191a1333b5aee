package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

const tripHeader = "ride_id,rideable_type,started_at,ended_at," +
	"start_station_name,start_station_id,end_station_name,end_station_id," +
	"start_lat,start_lng,end_lat,end_lng,member_casual\n"

func tripRow(rideID string) string {
	return rideID + ",classic_bike,2021-06-15 08:00:00,2021-06-15 08:15:30," +
		"A St,1,B St,2,41.90,-87.62,41.91,-87.63,member\n"
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// 两个各3行的文件拼接为6行，保持文件序和文件内行序
func TestLoadTripCSVDirConcatOrder(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "202105-tripdata.csv",
		tripHeader+tripRow("a1")+tripRow("a2")+tripRow("a3"))
	writeCSV(t, dir, "202106-tripdata.csv",
		tripHeader+tripRow("b1")+tripRow("b2")+tripRow("b3"))

	df, err := LoadTripCSVDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 6, df.Nrow())
	assert.Equal(t, 13, df.Ncol())
	assert.Equal(t,
		[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
		df.Col("ride_id").Records())
}

func TestLoadTripCSVDirMissingDir(t *testing.T) {
	_, err := LoadTripCSVDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadTripCSVDirNoFiles(t *testing.T) {
	dir := t.TempDir()
	// 非CSV文件不应被拾取
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))

	_, err := LoadTripCSVDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "没有CSV文件")
}

func TestLoadTripCSVDirMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "202105-tripdata.csv", tripHeader+tripRow("a1"))
	// 列数与表头不符的脏行
	writeCSV(t, dir, "202106-tripdata.csv", tripHeader+"only,three,cols\n")

	_, err := LoadTripCSVDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "202106-tripdata.csv")
}

func TestLoadTripCSVDirSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "202105-tripdata.csv", tripHeader+tripRow("a1"))
	writeCSV(t, dir, "202106-tripdata.csv",
		"ride_id,bike_type\nx1,classic_bike\n")

	_, err := LoadTripCSVDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "202106-tripdata.csv")
	assert.Contains(t, err.Error(), "列")
}

func TestLoadTripCSVDirReadOnly(t *testing.T) {
	dir := t.TempDir()
	content := tripHeader + tripRow("a1")
	writeCSV(t, dir, "202105-tripdata.csv", content)

	_, err := LoadTripCSVDir(dir)
	require.NoError(t, err)

	// 源文件不应被修改
	data, err := os.ReadFile(filepath.Join(dir, "202105-tripdata.csv"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestReadTripXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "202107-tripdata.xlsx")

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("trips")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, name := range []string{"ride_id", "rideable_type", "member_casual"} {
		header.AddCell().Value = name
	}
	row := sheet.AddRow()
	row.AddCell().Value = "x1"
	row.AddCell().Value = "classic_bike"
	// member_casual 缺尾部单元格，读入时应补空串

	require.NoError(t, wb.Save(path))

	df, err := ReadTripXLSX(path, "trips")
	require.NoError(t, err)

	assert.Equal(t, 1, df.Nrow())
	assert.Equal(t, []string{"ride_id", "rideable_type", "member_casual"}, df.Names())
	assert.Equal(t, []string{"x1"}, df.Col("ride_id").Records())
	assert.Equal(t, []string{""}, df.Col("member_casual").Records())
}

func TestReadTripXLSXFallbackSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "202108-tripdata.xlsx")

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("数据")
	require.NoError(t, err)
	header := sheet.AddRow()
	header.AddCell().Value = "ride_id"
	sheet.AddRow().AddCell().Value = "y1"
	require.NoError(t, wb.Save(path))

	// 指定的工作表不存在时退回第一个工作表
	df, err := ReadTripXLSX(path, "trips")
	require.NoError(t, err)
	assert.Equal(t, []string{"y1"}, df.Col("ride_id").Records())
}
