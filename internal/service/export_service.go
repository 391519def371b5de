package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
	pkgerrors "daily-attendance/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportRangeTooLong = pkgerrors.InvalidInput("导出区间不能超过 366 天")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// maxExportDays 单次导出允许的最大天数（含首尾）
const maxExportDays = 366

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportAttendance 导出 [start, end] 区间内的考勤记录为 Excel
	ExportAttendance(ctx context.Context, start, end time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance 导出考勤报表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "考勤明细"：日期 | 学生 | 科目 | 状态 | 标记时间 | 标记教师，每条记录一行
//   - Sheet "科目汇总"：科目 | 出勤 | 缺勤，按科目名排序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendance(ctx context.Context, start, end time.Time) (*bytes.Buffer, string, error) {
	start = model.CalendarDate(start, nil)
	end = model.CalendarDate(end, nil)
	if start.After(end) {
		return nil, "", ErrInvalidDateRange
	}
	if int(end.Sub(start).Hours()/24)+1 > maxExportDays {
		return nil, "", ErrExportRangeTooLong
	}

	// 1. 查询区间内记录
	records, err := s.repo.Attendance.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	const detailSheet = "考勤明细"
	const summarySheet = "科目汇总"

	idx, _ := f.NewSheet(detailSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.NewSheet(summarySheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 明细
	detailHeader := []string{"日期", "学生", "科目", "状态", "标记时间", "标记教师"}
	for i, h := range detailHeader {
		f.SetCellValue(detailSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(detailSheet, "A1", cell(colName(len(detailHeader)-1), 1), headerStyle)
	f.SetColWidth(detailSheet, "A", "A", 12)
	f.SetColWidth(detailSheet, "B", "C", 18)
	f.SetColWidth(detailSheet, "D", "D", 10)
	f.SetColWidth(detailSheet, "E", "E", 22)
	f.SetColWidth(detailSheet, "F", "F", 18)

	type tally struct{ present, absent int }
	perSubject := make(map[string]*tally)

	row := 2
	for i := range records {
		a := &records[i]
		student, subject, teacher := fmt.Sprint(a.StudentID), fmt.Sprint(a.SubjectID), fmt.Sprint(a.MarkedBy)
		if a.Student != nil {
			student = a.Student.Username
		}
		if a.Subject != nil {
			subject = a.Subject.Name
		}
		if a.Teacher != nil {
			teacher = a.Teacher.Name
		}
		markedAt := "-"
		if a.MarkedAt != nil {
			markedAt = a.MarkedAt.UTC().Format(time.RFC3339)
		}

		f.SetCellValue(detailSheet, cell("A", row), a.Date.Format(model.DateLayout))
		f.SetCellValue(detailSheet, cell("B", row), student)
		f.SetCellValue(detailSheet, cell("C", row), subject)
		f.SetCellValue(detailSheet, cell("D", row), string(a.Status))
		f.SetCellValue(detailSheet, cell("E", row), markedAt)
		f.SetCellValue(detailSheet, cell("F", row), teacher)
		row++

		t, ok := perSubject[subject]
		if !ok {
			t = &tally{}
			perSubject[subject] = t
		}
		if a.Status == model.StatusPresent {
			t.present++
		} else {
			t.absent++
		}
	}

	// 汇总
	f.SetCellValue(summarySheet, "A1", "科目")
	f.SetCellValue(summarySheet, "B1", "出勤")
	f.SetCellValue(summarySheet, "C1", "缺勤")
	f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)
	f.SetColWidth(summarySheet, "A", "A", 20)

	names := make([]string, 0, len(perSubject))
	for name := range perSubject {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		r := i + 2
		f.SetCellValue(summarySheet, cell("A", r), name)
		f.SetCellValue(summarySheet, cell("B", r), perSubject[name].present)
		f.SetCellValue(summarySheet, cell("C", r), perSubject[name].absent)
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考勤报表_%s_%s.xlsx", start.Format(model.DateLayout), end.Format(model.DateLayout))
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
