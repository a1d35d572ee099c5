package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// AdminReportHandler serves the aggregated views as JSON, XLSX or PDF.
type AdminReportHandler struct {
	Reports  *service.ReportService
	Timezone *time.Location
}

func (h AdminReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/reports/daily", h.daily)
	r.Get("/admin/reports/monthly-salary", h.monthlySalary)
	r.Get("/admin/reports/employee-summary", h.employeeSummary)
}

func (h AdminReportHandler) daily(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date", h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}
	day := time.Now().In(h.Timezone)
	if date != nil {
		day = *date
	}
	rows, err := h.Reports.Daily(r.Context(), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	header := []string{"Employee ID", "Name", "Status", "Slots", "Daily Salary"}
	table := make([][]any, 0, len(rows))
	for _, row := range rows {
		table = append(table, []any{row.EmployeeID, row.Name, string(row.Status), row.SlotsCount, row.DailySalary})
	}
	h.respond(w, r, "daily_"+day.Format("20060102"), "Daily Attendance", header, table, rows)
}

func (h AdminReportHandler) monthlySalary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonthQuery(r, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)")
		return
	}
	rows, err := h.Reports.MonthlySalary(r.Context(), year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	header := []string{"Employee ID", "Name", "Approved", "Pending", "Rejected", "Total Salary"}
	table := make([][]any, 0, len(rows))
	for _, row := range rows {
		table = append(table, []any{
			row.EmployeeID, row.Name, row.ApprovedSlots, row.PendingSlots, row.RejectedSlots, row.TotalSalary,
		})
	}
	suffix := fmt.Sprintf("%04d%02d", year, int(month))
	h.respond(w, r, "monthly_salary_"+suffix, "Monthly Salary", header, table, rows)
}

func (h AdminReportHandler) employeeSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required")
		return
	}
	year, month, err := parseMonthQuery(r, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)")
		return
	}
	summary, err := h.Reports.EmployeeSummary(r.Context(), employeeID, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	header := []string{"Date", "Status", "Slots", "Daily Salary"}
	table := make([][]any, 0, len(summary.Days))
	for _, day := range summary.Days {
		table = append(table, []any{day.Date, string(day.Status), len(day.Slots), day.DailySalary})
	}
	suffix := fmt.Sprintf("%s_%04d%02d", employeeID, year, int(month))
	title := fmt.Sprintf("Attendance Summary %s (%s)", summary.Name, employeeID)
	h.respond(w, r, "employee_summary_"+suffix, title, header, table, summary)
}

// respond writes jsonPayload for format=json (the default), or renders the
// tabular form for xlsx/pdf downloads.
func (h AdminReportHandler) respond(w http.ResponseWriter, r *http.Request,
	filename, title string, header []string, table [][]any, jsonPayload any,
) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, jsonPayload)
	case "xlsx", "excel":
		// Sheet names are capped at 31 chars, so the title stays out of them.
		data, err := exportXLSX("Report", header, table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		_, _ = w.Write(data)
	case "pdf":
		data, err := exportPDF(title, header, table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use json, xlsx or pdf)")
	}
}

func exportXLSX(sheet string, header []string, table [][]any) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range table {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(title string, header []string, table [][]any) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	colWidth := 190.0 / float64(len(header))
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, v := range header {
		pdf.CellFormat(colWidth, 8, v, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range table {
		for _, v := range row {
			pdf.CellFormat(colWidth, 7, fmt.Sprint(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
