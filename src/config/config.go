package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Email struct {
		Server        string   `json:"server"`         // IMAP服务器地址
		Username      string   `json:"username"`       // 邮箱用户名
		Password      string   `json:"password"`       // 邮箱密码/授权码
		TargetSubject string   `json:"target_subject"` // 需要匹配的邮件主题（月度骑行数据）
		CheckInterval Duration `json:"check_interval"` // 检查新邮件的间隔时间
	} `json:"email"`

	DataDir    string `json:"data_dir"`     // 骑行数据CSV存放目录
	ReportDir  string `json:"report_dir"`   // 报告输出目录（图表HTML、汇总xlsx）
	SheetName  string `json:"sheet_name"`   // xlsx月度数据的工作表名
	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
	SendEmail struct {
		Server     string `json:"server"`     // SMTP服务器地址
		Username   string `json:"username"`   // 发件邮箱
		Password   string `json:"password"`   // 发件密码/授权码
		Subject    string `json:"subject"`    // 报告邮件主题
		Recipients string `json:"recipients"` // 收件人，逗号分隔
	} `json:"send_email"`
}

// DataConfig 描述骑行数据的数据字典：列名映射、类别词表与展示顺序
type DataConfig struct {
	TripData     map[string]string `json:"tripData"`     // 逻辑列名 -> CSV实际列名
	Rideables    map[string]string `json:"rideables"`    // 车辆类型词表 code -> 展示名
	Disallowed   []string          `json:"disallowed"`   // 清洗时剔除的车辆类型（历史遗留类别）
	WeekdayOrder []string          `json:"weekdayOrder"` // 周维度展示顺序（周日开头）
	MonthOrder   []string          `json:"monthOrder"`   // 月维度展示顺序（"01".."12"）
	MonthNames   map[string]string `json:"monthNames"`   // 月份编号 -> 英文月名
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据字典文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	dcfg.fillDefaults()
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// GetTripData 按逻辑列名取CSV实际列名，未配置时退回逻辑列名本身
func (dc *DataConfig) GetTripData(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.TripData[colName]; ok && v != "" {
		return v
	}
	return colName
}

func (dc *DataConfig) SetTripData(colName, value string) {
	mu.Lock()
	defer mu.Unlock()
	dc.TripData[colName] = value
}

// IsDisallowed 判断车辆类型是否在清洗剔除名单内
func (dc *DataConfig) IsDisallowed(rideable string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, v := range dc.Disallowed {
		if v == rideable {
			return true
		}
	}
	return false
}

// MonthName 月份编号（"01".."12"）转英文月名，未知编号原样返回
func (dc *DataConfig) MonthName(month string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.MonthNames[month]; ok {
		return v
	}
	return month
}

// fillDefaults 对数据字典缺省的字段补默认值
func (dc *DataConfig) fillDefaults() {
	def := DefaultDataConfig()
	if dc.TripData == nil {
		dc.TripData = def.TripData
	}
	if dc.Rideables == nil {
		dc.Rideables = def.Rideables
	}
	if len(dc.Disallowed) == 0 {
		dc.Disallowed = def.Disallowed
	}
	if len(dc.WeekdayOrder) == 0 {
		dc.WeekdayOrder = def.WeekdayOrder
	}
	if len(dc.MonthOrder) == 0 {
		dc.MonthOrder = def.MonthOrder
	}
	if dc.MonthNames == nil {
		dc.MonthNames = def.MonthNames
	}
}

// DefaultDataConfig 返回与当前骑行数据发布格式一致的数据字典
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		TripData: map[string]string{
			"ride_id":            "ride_id",
			"rideable_type":      "rideable_type",
			"started_at":         "started_at",
			"ended_at":           "ended_at",
			"start_station_name": "start_station_name",
			"start_station_id":   "start_station_id",
			"end_station_name":   "end_station_name",
			"end_station_id":     "end_station_id",
			"start_lat":          "start_lat",
			"start_lng":          "start_lng",
			"end_lat":            "end_lat",
			"end_lng":            "end_lng",
			"member_casual":      "member_casual",
			"date":               "date",
			"year":               "year",
			"month":              "month",
			"day":                "day",
			"day_of_week":        "day_of_week",
			"ride_length":        "ride_length",
		},
		Rideables: map[string]string{
			"classic_bike":  "经典单车",
			"electric_bike": "电动单车",
			"docked_bike":   "桩式单车（已停用类别）",
		},
		Disallowed: []string{"docked_bike"},
		WeekdayOrder: []string{
			"Sunday", "Monday", "Tuesday", "Wednesday",
			"Thursday", "Friday", "Saturday",
		},
		MonthOrder: []string{
			"01", "02", "03", "04", "05", "06",
			"07", "08", "09", "10", "11", "12",
		},
		MonthNames: map[string]string{
			"01": "January", "02": "February", "03": "March",
			"04": "April", "05": "May", "06": "June",
			"07": "July", "08": "August", "09": "September",
			"10": "October", "11": "November", "12": "December",
		},
	}
}
