package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
	apperrors "owlfi/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportMonth 导出某月路演排期为 Excel
	ExportMonth(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportMonth — 导出月度路演排期
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "路演排期"
//   - 第 1 行：标题（YYYY年M月 路演排期），合并整行
//   - 第 2 行：表头
//   - 数据行：按日期、开始时间升序，每场一行；无路演的日期不出行
//   - 同日冲突的行整行标红底
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

var exportHeaders = []string{"日期", "星期", "时间", "时长(分钟)", "标题", "主讲人", "展示状态", "运营标注", "同日冲突", "预约人数", "参考资料"}

var weekdayNames = []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

var statusNames = map[string]string{
	string(roadshow.StatusWarmingUp): "预热中",
	string(roadshow.StatusLive):      "直播中",
	string(roadshow.StatusReplay):    "可回放",
	string(roadshow.StatusEnded):     "已结束",
}

func (s *exportService) ExportMonth(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	if !roadshow.ValidMonth(month) {
		return nil, "", apperrors.NewValidation("month", "月份应在 1-12 之间")
	}

	// 1. 查询当月路演并按日聚合
	events, err := loadMonth(ctx, s.repo, year, month)
	if err != nil {
		s.logger.Error("查询月度路演失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, "", storeErr(err)
	}
	view := toCalendarView(roadshow.BuildMonth(events, year, month, true), s.clock())

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "路演排期"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{12, 6, 8, 10, 36, 14, 10, 10, 10, 10, 48}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	conflictStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%d年%d月 路演排期", year, month))
	f.MergeCell(sheetName, "A1", cell(colName(len(exportHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(exportHeaders)-1), 2), headerStyle)

	// 数据行
	row := 3
	for d := 1; d <= view.DaysInMonth; d++ {
		weekday := weekdayNames[(view.LeadingBlankDays+d-1)%7]
		for _, v := range view.EventsByDay[d] {
			values := []any{
				v.Date,
				weekday,
				v.Time,
				v.DurationMinutes,
				v.Title,
				v.Speaker,
				statusNames[v.ComputedStatus],
				statusNames[v.ManualStatus],
				yesNo(v.HasConflict),
				v.ReservationDisplayCount,
				materialsText(v.Materials),
			}
			for i, val := range values {
				f.SetCellValue(sheetName, cell(colName(i), row), val)
			}
			if v.HasConflict {
				f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(exportHeaders)-1), row), conflictStyle)
			}
			row++
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("路演排期_%d-%02d.xlsx", year, month)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

// materialsText 资料列表拼成一行：[基金] 名称(代码)；[研报] 名称
func materialsText(list []dto.MaterialView) string {
	parts := make([]string, 0, len(list))
	for _, m := range list {
		tag := "研报"
		if m.Kind == string(roadshow.MaterialFund) {
			tag = "基金"
		}
		p := fmt.Sprintf("[%s] %s", tag, m.Name)
		if m.Code != "" {
			p += "(" + m.Code + ")"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "；")
}
