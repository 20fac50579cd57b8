// catimport 将本地销售 / 实绩 / 客户文件导入 SQLite 数据集
//
//	catimport [-db path] [-kind auto|performance|customers] [-policy replace|merge] files...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dongha22/strategiccategory/internal/config"
	"github.com/dongha22/strategiccategory/internal/importer"
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/reconcile"
	"github.com/dongha22/strategiccategory/internal/store"
)

var (
	dbPath  = flag.String("db", "", "数据库路径 (默认取 config.toml 的 data_dir/db_file)")
	kind    = flag.String("kind", "auto", "上传类型: auto | performance | customers")
	policy  = flag.String("policy", "", "实绩合并策略: replace | merge (默认取配置)")
	year    = flag.Int("year", 0, "本年 (默认取配置)")
	asJSON  = flag.Bool("json", false, "以 JSON 输出导入报告")
	verbose = flag.Bool("v", false, "输出调试日志")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法: %s [flags] files...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, _, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	uploadKind, ok := model.ParseUploadKind(*kind)
	if !ok {
		log.Fatalf("未知上传类型: %s", *kind)
	}
	p := cfg.Ingest.PerformancePolicy
	if *policy != "" {
		p = *policy
	}
	perfPolicy, err := reconcile.ParsePolicy(p)
	if err != nil {
		log.Fatal(err)
	}
	fy := model.FiscalYear(cfg.Ingest.ThisYear)
	if *year > 0 {
		fy = model.FiscalYear(*year)
	}

	path := *dbPath
	if path == "" {
		path = config.DBPath(cfg)
	}
	st, err := store.New(path)
	if err != nil {
		log.Fatalf("打开数据库失败: %v", err)
	}
	defer st.Close()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	coordinator := importer.NewCoordinator(st,
		importer.WithLogger(logger),
		importer.WithDefaults(perfPolicy, fy),
		importer.WithReadOptions(parser.ReadOptions{FallbackEncoding: cfg.Ingest.CSVFallbackEncoding}),
	)

	files := make([]importer.FileInput, 0, flag.NArg())
	for _, arg := range flag.Args() {
		files = append(files, importer.FileInput{Name: filepath.Base(arg), Path: arg})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := coordinator.Apply(ctx, importer.ImportOptions{Files: files, Kind: uploadKind})
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal(err)
		}
	} else {
		printReport(report)
	}
	if report.ErrorFiles > 0 {
		st.Close()
		os.Exit(1)
	}
}

func printReport(r *parser.ImportReport) {
	fmt.Printf("批次 %s: %d 个文件, 导入 %d, 跳过 %d, 失败 %d (%s)\n",
		r.BatchID, r.TotalFiles, r.ImportedFiles, r.SkippedFiles, r.ErrorFiles, r.Duration)
	for _, f := range r.Files {
		fmt.Printf("  [%s] %s shape=%s rows=%d dropped=%d\n", f.Status, f.Filename, f.Shape, f.ImportedRows, f.DroppedRows)
		for _, w := range f.Warnings {
			fmt.Printf("      warning: %s\n", w)
		}
		for _, e := range f.Errors {
			fmt.Printf("      error: %s\n", e)
		}
	}
	if len(r.Categories) > 0 {
		fmt.Printf("更新品类: %v\n", r.Categories)
	}
}
