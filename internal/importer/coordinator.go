package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dongha22/strategiccategory/internal/metrics"
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/reconcile"
)

// Repository 导入所需的持久化操作
type Repository interface {
	LoadDataset(ctx context.Context) (model.Dataset, error)
	ReplacePerformance(ctx context.Context, c model.ProductCategory, perf []model.MonthlyPerformance) error
	ReplaceCustomers(ctx context.Context, c model.ProductCategory, set model.CustomerSet) (model.CustomerSet, error)
}

// ImportLogger 可选的导入日志；Repository 同时实现时自动记录
type ImportLogger interface {
	CreateImportLog(ctx context.Context, batchID, kind string, fileCount int) (int64, error)
	FinishImportLog(ctx context.Context, id int64, imported, skipped, failed int, status, message string) error
}

// Coordinator 导入协调器；批次串行执行（读取 → 合并 → 写回）
type Coordinator struct {
	mu       sync.Mutex
	repo     Repository
	log      *slog.Logger
	metrics  *metrics.Ingest
	readOpts parser.ReadOptions
	policy   reconcile.Policy
	fy       model.FiscalYear
}

// Option 协调器选项
type Option func(*Coordinator)

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Ingest) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithReadOptions 设置文件读取选项（CSV 回退编码）
func WithReadOptions(o parser.ReadOptions) Option {
	return func(c *Coordinator) { c.readOpts = o }
}

// WithDefaults 设置默认的实绩合并策略与年度
func WithDefaults(policy reconcile.Policy, fy model.FiscalYear) Option {
	return func(c *Coordinator) {
		if policy != "" {
			c.policy = policy
		}
		c.fy = fy
	}
}

// NewCoordinator 创建导入协调器
func NewCoordinator(repo Repository, opts ...Option) *Coordinator {
	c := &Coordinator{
		repo:   repo,
		log:    slog.Default(),
		policy: reconcile.PolicyReplace,
		fy:     model.DefaultFiscalYear,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FileInput 一个待导入的文件；Data 为空时从 Path 读取
type FileInput struct {
	Name string
	Data []byte
	Path string
}

// ImportOptions 导入选项
type ImportOptions struct {
	Files      []FileInput
	Kind       model.UploadKind
	Policy     reconcile.Policy // 为空时使用协调器默认值
	FiscalYear model.FiscalYear // 为 0 时使用协调器默认值
}

// 进度事件类型
const (
	EventStart     = "start"
	EventFileStart = "file_start"
	EventFileDone  = "file_done"
	EventWarning   = "warning"
	EventInfo      = "info"
	EventDone      = "done"
	EventError     = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/file_start/file_done/warning/info/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrNoFiles 批次中没有文件
var ErrNoFiles = errors.New("no files to import")

// Import 异步执行导入，返回进度通道；通道在 done/error 事件之后关闭
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 100)

	go func() {
		defer close(ch)
		report, err := c.run(ctx, opts, ch)
		final := ProgressEvent{Type: EventDone, Message: "导入完成", Data: report, Timestamp: time.Now()}
		if err != nil {
			final.Type = EventError
			final.Message = err.Error()
		}
		// 终止事件必须送达，除非调用方已放弃
		select {
		case ch <- final:
		case <-ctx.Done():
		}
	}()

	return ch
}

// Apply 同步执行导入
func (c *Coordinator) Apply(ctx context.Context, opts ImportOptions) (*parser.ImportReport, error) {
	return c.run(ctx, opts, nil)
}

// batchState 一次批次的处理上下文
type batchState struct {
	kind   model.UploadKind
	fy     model.FiscalYear
	report *parser.ImportReport
	ch     chan<- ProgressEvent
}

func (c *Coordinator) run(ctx context.Context, opts ImportOptions, ch chan<- ProgressEvent) (*parser.ImportReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := time.Now()

	kind, ok := model.ParseUploadKind(string(opts.Kind))
	if !ok {
		return nil, fmt.Errorf("unknown upload kind %q", opts.Kind)
	}
	policy := opts.Policy
	if policy == "" {
		policy = c.policy
	}
	if _, err := reconcile.ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	fy := opts.FiscalYear
	if fy == 0 {
		fy = c.fy
	}
	if len(opts.Files) == 0 {
		return nil, ErrNoFiles
	}

	st := &batchState{
		kind: kind,
		fy:   fy,
		ch:   ch,
		report: &parser.ImportReport{
			BatchID:    uuid.NewString(),
			TotalFiles: len(opts.Files),
			Categories: []model.ProductCategory{},
			Files:      make([]parser.FileResult, 0, len(opts.Files)),
		},
	}
	log := c.log.With(slog.String("batch", st.report.BatchID), slog.String("kind", string(kind)))

	logID := c.beginLog(ctx, st)

	c.emit(st, EventStart, fmt.Sprintf("开始导入 %d 个文件", len(opts.Files)), map[string]interface{}{
		"batchId":    st.report.BatchID,
		"totalFiles": len(opts.Files),
	})

	batch := reconcile.NewBatch()
	for _, in := range opts.Files {
		if err := ctx.Err(); err != nil {
			return c.finish(ctx, st, logID, start, err)
		}
		var res parser.FileResult
		batch, res = c.processFile(st, batch, in)
		c.record(st, res)
		log.Info("file processed",
			slog.String("file", res.Filename),
			slog.String("shape", string(res.Shape)),
			slog.String("status", string(res.Status)),
			slog.Int("rows", res.ImportedRows),
			slog.Int("dropped", res.DroppedRows))
	}

	if batch.Empty() {
		c.emit(st, EventInfo, "没有可合并的数据", nil)
		return c.finish(ctx, st, logID, start, nil)
	}

	update := batch.Update(policy, fy)
	if err := c.persist(ctx, update); err != nil {
		log.Error("persist failed", slog.String("err", err.Error()))
		return c.finish(ctx, st, logID, start, err)
	}
	st.report.Categories = update.Categories()
	return c.finish(ctx, st, logID, start, nil)
}

// processFile 解析单个文件并折叠进批次；任何错误只影响本文件
func (c *Coordinator) processFile(st *batchState, batch reconcile.Batch, in FileInput) (reconcile.Batch, parser.FileResult) {
	fileStart := time.Now()
	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}
	res := parser.FileResult{Filename: name, Shape: parser.ShapeUnknown}
	c.emit(st, EventFileStart, fmt.Sprintf("正在解析文件: %s", name), map[string]string{"filename": name})

	done := func(b reconcile.Batch, res parser.FileResult) (reconcile.Batch, parser.FileResult) {
		res.Duration = time.Since(fileStart)
		if res.Status == "" {
			res.Status = model.FileImported
		}
		c.emit(st, EventFileDone, fmt.Sprintf("%s: %s", name, res.Status), res)
		return b, res
	}
	fail := func(err error) (reconcile.Batch, parser.FileResult) {
		res.Status = model.FileError
		res.Errors = append(res.Errors, err.Error())
		c.log.Warn("file rejected", slog.String("file", name), slog.String("err", err.Error()))
		return done(batch, res)
	}

	data := in.Data
	if data == nil && in.Path != "" {
		b, err := os.ReadFile(in.Path)
		if err != nil {
			return fail(fmt.Errorf("%w: %s: %v", parser.ErrReadFailed, name, err))
		}
		data = b
	}

	wb, err := parser.OpenWorkbook(name, data, c.readOpts)
	if err != nil {
		return fail(err)
	}
	if len(wb.Sheets) == 0 {
		res.Status = model.FileSkipped
		res.Warnings = append(res.Warnings, "file has no readable sheets")
		c.warn(st, name, "file has no readable sheets")
		return done(batch, res)
	}

	shape := c.detectShape(st, wb)
	res.Shape = shape

	switch shape {
	case parser.ShapeSales:
		if st.kind == model.UploadCustomers {
			return fail(fmt.Errorf("%s: sales file is not accepted by a customer upload", name))
		}
		return c.applySales(st, batch, res, wb, done, fail)
	case parser.ShapePerformance:
		if st.kind == model.UploadCustomers {
			return fail(fmt.Errorf("%s: performance workbook is not accepted by a customer upload", name))
		}
		return c.applyPerformance(st, batch, res, wb, done)
	case parser.ShapeCustomer:
		if st.kind == model.UploadPerformance {
			return fail(fmt.Errorf("%s: customer file is not accepted by a performance upload", name))
		}
		return c.applyCustomers(st, batch, res, wb, done, fail)
	}

	res.Status = model.FileSkipped
	msg := "unrecognized sheet layout"
	res.Warnings = append(res.Warnings, msg)
	c.warn(st, name, msg)
	return done(batch, res)
}

// detectShape 取第一个可识别的 sheet 的形态；显式上传类型为未识别的文件提供默认形态
func (c *Coordinator) detectShape(st *batchState, wb *parser.Workbook) parser.Shape {
	recognizer := parser.NewSheetRecognizer(st.fy)
	for _, sheet := range wb.Sheets {
		r := recognizer.Recognize(sheet.Name, sheet.Headers)
		if r.Shape != parser.ShapeUnknown {
			return r.Shape
		}
	}
	switch st.kind {
	case model.UploadPerformance:
		return parser.ShapePerformance
	case model.UploadCustomers:
		return parser.ShapeCustomer
	}
	return parser.ShapeUnknown
}

type doneFunc func(reconcile.Batch, parser.FileResult) (reconcile.Batch, parser.FileResult)
type failFunc func(error) (reconcile.Batch, parser.FileResult)

func (c *Coordinator) applySales(st *batchState, batch reconcile.Batch, res parser.FileResult, wb *parser.Workbook, done doneFunc, fail failFunc) (reconcile.Batch, parser.FileResult) {
	category, err := parser.RequireCategoryFromFilename(wb.Filename)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.FirstSheet()
	if err != nil {
		return fail(err)
	}
	sales := parser.AggregateSalesSheet(category, wb.Filename, sheet, st.fy)

	res.Role = sales.Role
	res.Categories = []model.ProductCategory{category}
	res.ImportedRows = sales.Rows
	res.DroppedRows = sales.DroppedRows
	c.metrics.AddDroppedRows("empty_period", sales.DroppedRows)
	if n := sales.UnresolvedPeriods; n > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d rows with unparseable period excluded from monthly totals", n))
		c.metrics.AddDroppedRows("unparseable_period", n)
	}
	if sales.Rows == 0 {
		res.Status = model.FileSkipped
		res.Warnings = append(res.Warnings, "no sales rows")
		return done(batch, res)
	}
	return done(batch.WithSales(sales), res)
}

func (c *Coordinator) applyPerformance(st *batchState, batch reconcile.Batch, res parser.FileResult, wb *parser.Workbook, done doneFunc) (reconcile.Batch, parser.FileResult) {
	sheets, warnings := parser.ParsePerformanceWorkbook(wb)
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w)
		c.warn(st, res.Filename, w)
	}

	next := batch
	for _, category := range model.Categories {
		ps, ok := sheets[category]
		if !ok {
			continue
		}
		next = next.WithPerformance(category, ps.Performance)
		res.Categories = append(res.Categories, category)
		res.ImportedRows += len(ps.Performance)
		res.DroppedRows += ps.DroppedRows
		res.Sheets = append(res.Sheets, parser.SheetResult{
			SheetName:    ps.SheetName,
			Category:     category,
			Shape:        parser.ShapePerformance,
			Status:       model.FileImported,
			ImportedRows: len(ps.Performance),
			DroppedRows:  ps.DroppedRows,
		})
	}
	c.metrics.AddDroppedRows("invalid_month", res.DroppedRows)

	if len(res.Categories) == 0 {
		res.Status = model.FileSkipped
		res.Warnings = append(res.Warnings, "no category-resolvable sheets")
		c.warn(st, res.Filename, "no category-resolvable sheets")
	}
	return done(next, res)
}

func (c *Coordinator) applyCustomers(st *batchState, batch reconcile.Batch, res parser.FileResult, wb *parser.Workbook, done doneFunc, fail failFunc) (reconcile.Batch, parser.FileResult) {
	uploads := make(map[model.ProductCategory]parser.CustomerUpload)

	if category, ok := parser.ResolveCategoryFromFilename(wb.Filename); ok {
		sheet, err := wb.FirstSheet()
		if err != nil {
			return fail(err)
		}
		uploads[category] = parser.ParseCustomerSheet(category, sheet, st.fy)
	} else {
		var warnings []string
		uploads, warnings = parser.ParseCustomerWorkbook(wb, st.fy)
		for _, w := range warnings {
			res.Warnings = append(res.Warnings, w)
			c.warn(st, res.Filename, w)
		}
		if len(uploads) == 0 && len(warnings) == len(wb.Sheets) {
			return fail(parser.NewCategoryError(wb.Filename))
		}
	}

	next := batch
	for _, category := range model.Categories {
		upload, ok := uploads[category]
		if !ok {
			continue
		}
		res.DroppedRows += upload.DroppedRows
		if len(upload.Customers) == 0 {
			continue
		}
		next = next.WithCustomers(upload)
		res.Categories = append(res.Categories, category)
		res.ImportedRows += len(upload.Customers)
	}
	c.metrics.AddDroppedRows("empty_name", res.DroppedRows)

	if len(res.Categories) == 0 {
		res.Status = model.FileSkipped
		res.Warnings = append(res.Warnings, "no customer rows")
	}
	return done(next, res)
}

// persist 合并并只写回本批次涉及的品类
func (c *Coordinator) persist(ctx context.Context, u reconcile.Update) error {
	existing, err := c.repo.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	merged := reconcile.Merge(existing, u)

	for _, category := range u.Categories() {
		cd := merged[category]
		if err := c.repo.ReplacePerformance(ctx, category, cd.Performance); err != nil {
			return fmt.Errorf("failed to save performance for %s: %w", category, err)
		}
		_, fromFile := u.Customers[category]
		if fromFile || len(u.RevenueThisYear[category]) > 0 {
			if _, err := c.repo.ReplaceCustomers(ctx, category, cd.Customers); err != nil {
				return fmt.Errorf("failed to save customers for %s: %w", category, err)
			}
		}
	}
	return nil
}

func (c *Coordinator) record(st *batchState, res parser.FileResult) {
	r := st.report
	r.Files = append(r.Files, res)
	switch res.Status {
	case model.FileImported:
		r.ImportedFiles++
		r.ImportedRows += res.ImportedRows
	case model.FileSkipped:
		r.SkippedFiles++
	case model.FileError:
		r.ErrorFiles++
	}
	c.metrics.ObserveFile(string(st.kind), string(res.Status))
}

func (c *Coordinator) beginLog(ctx context.Context, st *batchState) int64 {
	il, ok := c.repo.(ImportLogger)
	if !ok {
		return 0
	}
	id, err := il.CreateImportLog(ctx, st.report.BatchID, string(st.kind), st.report.TotalFiles)
	if err != nil {
		c.log.Warn("create import log failed", slog.String("err", err.Error()))
		return 0
	}
	return id
}

// finish 汇总批次结果并写导入日志
func (c *Coordinator) finish(ctx context.Context, st *batchState, logID int64, start time.Time, err error) (*parser.ImportReport, error) {
	r := st.report
	r.Duration = time.Since(start)
	sort.SliceStable(r.Categories, func(i, j int) bool {
		return categoryIndex(r.Categories[i]) < categoryIndex(r.Categories[j])
	})

	status := batchStatus(r, err)
	c.metrics.ObserveBatch(status, r.Duration)

	if il, ok := c.repo.(ImportLogger); ok && logID > 0 {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		if ferr := il.FinishImportLog(context.WithoutCancel(ctx), logID, r.ImportedFiles, r.SkippedFiles, r.ErrorFiles, status, msg); ferr != nil {
			c.log.Warn("finish import log failed", slog.String("err", ferr.Error()))
		}
	}
	return r, err
}

func batchStatus(r *parser.ImportReport, err error) string {
	switch {
	case err != nil:
		return "failed"
	case r.ErrorFiles > 0 && r.ImportedFiles > 0:
		return "partial"
	case r.ErrorFiles > 0:
		return "failed"
	case r.ImportedFiles == 0:
		return "skipped"
	}
	return "success"
}

func categoryIndex(c model.ProductCategory) int {
	for i, v := range model.Categories {
		if v == c {
			return i
		}
	}
	return len(model.Categories)
}

func (c *Coordinator) warn(st *batchState, filename, msg string) {
	c.log.Warn("import warning", slog.String("file", filename), slog.String("warning", msg))
	c.emit(st, EventWarning, msg, map[string]string{"filename": filename})
}

func (c *Coordinator) emit(st *batchState, typ, msg string, data interface{}) {
	if st.ch == nil {
		return
	}
	c.sendProgress(st.ch, ProgressEvent{Type: typ, Message: msg, Data: data, Timestamp: time.Now()})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan<- ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
