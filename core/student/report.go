package student

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
)

const reportSheet = "Summary"

// MonthlyReport builds the month's reconciliation workbook for a batch: one
// row per student with their present-day count and fee status for the given
// month. When report recipients are configured the workbook is also emailed
// to them as an attachment.
func (svc *Service) MonthlyReport(ctx context.Context, batchID, monthKey string) (*bytes.Buffer, error) {
	if !attendance.ValidMonthKey(monthKey) {
		return nil, attendance.ErrInvalidMonth
	}

	stds, err := svc.repo.QueryStudentsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	histories, err := svc.repo.QueryBatchAttendance(ctx, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "querying batch attendance")
	}

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), reportSheet)

	headers := []string{"Student", "Present Days", "Fee Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(reportSheet, cell, header)
	}

	for i, std := range stds {
		fees, err := svc.repo.QueryFees(ctx, std.ID)
		if err != nil {
			return nil, errors.Wrap(err, "querying fees")
		}
		counts := attendance.MonthlyPresentCounts(histories[std.ID])
		status := attendance.BuildLedger(fees).Status(monthKey)

		line := i + 2
		_ = f.SetCellValue(reportSheet, fmt.Sprintf("A%d", line), std.Name)
		_ = f.SetCellValue(reportSheet, fmt.Sprintf("B%d", line), counts[monthKey])
		_ = f.SetCellValue(reportSheet, fmt.Sprintf("C%d", line), string(status))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing report workbook")
	}

	svc.emailReport(batchID, monthKey, buf.Bytes())
	return buf, nil
}

func (svc *Service) emailReport(batchID, monthKey string, workbook []byte) {
	if svc.mailSvc == nil || len(svc.conf.ReportRecipients) == 0 {
		return
	}

	to := make([]mail.Address, 0, len(svc.conf.ReportRecipients))
	for _, addr := range svc.conf.ReportRecipients {
		to = append(to, mail.Address{Address: addr})
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Batch report %s", monthKey),
		BodyStr: fmt.Sprintf("Attendance & fee summary for batch %s, month %s.", batchID, monthKey),
		Attachments: []core.Attachment{{
			Content:     bytes.NewBuffer(workbook),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("batch_report_%s.xlsx", sanitizeMonthKey(monthKey)),
		}},
	})
}

func sanitizeMonthKey(monthKey string) string {
	out := []byte(monthKey)
	for i, c := range out {
		if c == '/' {
			out[i] = '-'
		}
	}
	return string(out)
}
