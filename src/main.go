package main

import (
	"RideInsight/src/config"
	"RideInsight/src/datasource/email"
	"RideInsight/src/datasource/file"
	"RideInsight/src/processor"
	"RideInsight/src/report"
	"RideInsight/src/storage"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron"
)

// latestData 最近一次清洗后的数据快照
// 监控模式下文件回调与邮箱定时任务可能并发触发分析
var latestData processor.TripFrame

func main() {
	// 命令行参数
	configDir := flag.String("config", "./config", "配置文件目录")
	dataDir := flag.String("data", "", "骑行数据目录（覆盖配置）")
	reportDir := flag.String("report", "", "报告输出目录（覆盖配置）")
	watch := flag.Bool("watch", false, "监控数据目录并自动重新分析")
	checkMail := flag.Bool("email", false, "定时检查邮箱中的月度数据")
	sendReport := flag.Bool("send", false, "分析完成后通过邮件发送报告")
	webAddr := flag.String("web", "", "实时日志Web界面监听地址（如 :8080）")
	flag.Parse()

	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(*configDir, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}

	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *reportDir != "" {
		cfg.ReportDir = *reportDir
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("初始化日志失败:", err)
	}
	defer logger.Close()

	if *webAddr != "" {
		go startWebUI(logger, *webAddr)
	}

	// 启动时先全量分析一次
	if err := runPipeline(cfg, dcfg, logger, *sendReport); err != nil {
		logger.Fatal("分析失败: " + err.Error())
		os.Exit(1)
	}

	if !*watch && !*checkMail {
		return
	}

	// 文件监控：数据目录出现新文件时重新分析
	if *watch {
		monitor, err := file.NewFileMonitor(cfg.DataDir)
		if err != nil {
			logger.Fatal("创建文件监控失败: " + err.Error())
			os.Exit(1)
		}
		defer monitor.Close()

		go func() {
			err := monitor.Watch(func(path string) {
				logger.Info("检测到数据更新: " + path)
				if err := runPipeline(cfg, dcfg, logger, *sendReport); err != nil {
					logger.Error("重新分析失败: " + err.Error())
				}
			})
			if err != nil {
				logger.Error("文件监控错误: " + err.Error())
			}
		}()
		logger.Info("文件监控已启动: " + cfg.DataDir)
	}

	// 邮箱检查：定时拉取月度骑行数据附件
	if *checkMail {
		emailClient := email.NewEmailClient(
			cfg.Email.Server,
			cfg.Email.Username,
			cfg.Email.Password)

		handler := email.NewTripAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

		c := cron.New()
		interval := time.Duration(cfg.Email.CheckInterval).String() // 例如 "5m0s"
		cronSpec := fmt.Sprintf("@every %s", interval)

		err = c.AddFunc(cronSpec, func() {
			logger.Info(fmt.Sprintf("开始定时检查(间隔: %v)...", cronSpec))

			newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
			if err != nil {
				logger.Error("检查处理邮件失败: " + err.Error())
				return
			}
			if newEmail == nil {
				return
			}

			// 附件落盘后由文件监控触发重新分析；未开启监控时直接触发
			if err := handler.Handle(newEmail); err != nil {
				logger.Error(fmt.Sprintf("处理邮件失败(UID:%d): %v", newEmail.UID, err))
				return
			}
			if !*watch {
				if err := runPipeline(cfg, dcfg, logger, *sendReport); err != nil {
					logger.Error("重新分析失败: " + err.Error())
				}
			}
		})
		if err != nil {
			logger.Error("创建定时任务失败: " + err.Error())
			return
		}

		c.Start()
		defer c.Stop()
		logger.Info(fmt.Sprintf("邮件监控服务已启动(检查间隔: %v)", interval))
	}

	logger.Info("服务运行中，按Ctrl+C退出")
	waitForShutdown(logger)
}

// runPipeline 执行一次完整分析：读取 -> 衍生列 -> 清洗 -> 汇总 -> 生成报告
func runPipeline(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, send bool) error {
	t1 := time.Now()

	// 1. 读取数据目录下的全部月度CSV
	raw, err := file.LoadTripCSVDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("读取数据失败: %w", err)
	}
	logger.Info(fmt.Sprintf("读取原始数据 %d 行", raw.Nrow()))

	// 2. 衍生列
	enricher := processor.NewEnricher(dcfg)
	enriched, err := enricher.Enrich(raw)
	if err != nil {
		return fmt.Errorf("衍生列计算失败: %w", err)
	}

	// 3. 清洗
	cleaner := processor.NewCleaner(dcfg)
	cleaned, stats := cleaner.Clean(enriched)
	logger.Info("清洗统计: " + stats.String())
	latestData.SetDF(cleaned)

	// 4. 按周/按月汇总
	agg := processor.NewAggregator(dcfg)
	weekday, err := agg.AggregateBy(cleaned, processor.DimWeekday)
	if err != nil {
		return fmt.Errorf("按周汇总失败: %w", err)
	}
	month, err := agg.AggregateBy(cleaned, processor.DimMonth)
	if err != nil {
		return fmt.Errorf("按月汇总失败: %w", err)
	}

	// 汇总行数应与清洗后行数一致
	if total := processor.TotalRides(weekday); total != cleaned.Nrow() {
		logger.Warning(fmt.Sprintf("按周汇总行数不一致: %d != %d", total, cleaned.Nrow()))
	}
	if total := processor.TotalRides(month); total != cleaned.Nrow() {
		logger.Warning(fmt.Sprintf("按月汇总行数不一致: %d != %d", total, cleaned.Nrow()))
	}

	// 5. 生成报告
	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	htmlPath := filepath.Join(cfg.ReportDir, "charts.html")
	charts := report.NewChartSet(dcfg)
	if err := charts.WriteHTMLFile(htmlPath, weekday, month); err != nil {
		return fmt.Errorf("生成图表失败: %w", err)
	}

	xlsxPath := filepath.Join(cfg.ReportDir, "summary.xlsx")
	if err := report.SaveSummaryWorkbook(xlsxPath, weekday, month, stats); err != nil {
		return fmt.Errorf("生成汇总表失败: %w", err)
	}

	// 日志按配置上限滚动
	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志滚动失败: " + err.Error())
	}

	logger.Info(fmt.Sprintf("分析完成，耗时: %v，报告: %s", time.Since(t1), cfg.ReportDir))

	// 6. 可选：邮件发送报告
	if send {
		if err := email.SendReport(cfg, []string{htmlPath, xlsxPath}); err != nil {
			return fmt.Errorf("发送报告失败: %w", err)
		}
		logger.Info("报告已发送: " + cfg.SendEmail.Recipients)
	}

	return nil
}

// startWebUI 启动简单的Web界面来显示实时日志
func startWebUI(logger *storage.Logger, addr string) {
	http.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Transfer-Encoding", "chunked")

		logChan := logger.Subscribe()

		for {
			select {
			case msg := <-logChan:
				if _, err := fmt.Fprintln(w, msg); err != nil {
					return
				}
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			case <-r.Context().Done():
				return
			}
		}
	})

	http.ListenAndServe(addr, nil)
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("收到信号: " + sig.String() + "，正在退出...")
	logger.Close()
	os.Exit(0)
}
