package echoapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/place"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/student"
)

func Test_batchApi_create(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mwanza, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Mwanza"})

	req, rec := newRequest(http.MethodPost, "/v1/batches", []byte(`{"name": "Morning", "place_id": "`+mwanza.ID+`"}`))
	deps.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	tests := []httpTest{
		{
			name: "fields required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "place_id": "this field is required"}),
		},
		{
			name: "special characters rejected", body: []byte(`{"name": "Morning*", "place_id": "` + mwanza.ID + `"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "only alphanumeric characters and underscores are allowed"}),
		},
		{
			name: "duplicate in place", body: []byte(`{"name": "morning", "place_id": "` + mwanza.ID + `"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": batch.ErrBatchExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/batches", tt.body)
			deps.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// same name in another place is fine
	dodoma, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Dodoma"})
	req, rec = newRequest(http.MethodPost, "/v1/batches", []byte(`{"name": "Morning", "place_id": "`+dodoma.ID+`"}`))
	deps.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func Test_batchApi_queryStudents(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mwanza, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Mwanza"})
	morning, _ := deps.batchSvc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: mwanza.ID})
	asha, _ := deps.studentSvc.Create(ctx, student.NewStudent{BatchID: morning.ID, Name: "Asha", Age: 10})
	juma, _ := deps.studentSvc.Create(ctx, student.NewStudent{BatchID: morning.ID, Name: "Juma"})

	// Asha marked present today; Juma never marked
	if _, err := deps.studentSvc.MarkAttendance(ctx, asha.ID, attendance.Present); err != nil {
		t.Fatalf("MarkAttendance() error = %v", err)
	}

	req, rec := newRequest(http.MethodGet, "/v1/batches/"+morning.ID+"/students")
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallList(t,
			student.BatchStudent{Student: asha, TodayStatus: attendance.Present},
			student.BatchStudent{Student: juma, TodayStatus: attendance.NoRecord},
		),
	}, rec)

	req, rec = newRequest(http.MethodGet, "/v1/batches/nope/students")
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: batch.ErrNotFound.Error()}),
	}, rec)
}

func Test_batchApi_datesAndMatrix(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mwanza, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Mwanza"})
	morning, _ := deps.batchSvc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: mwanza.ID})
	asha, _ := deps.studentSvc.Create(ctx, student.NewStudent{BatchID: morning.ID, Name: "Asha"})
	juma, _ := deps.studentSvc.Create(ctx, student.NewStudent{BatchID: morning.ID, Name: "Juma"})

	_ = deps.studentRepo.UpsertAttendance(ctx, asha.ID, "2022-03-02", attendance.Present)
	_ = deps.studentRepo.UpsertAttendance(ctx, juma.ID, "2022-03-01", attendance.Absent)
	_ = deps.studentRepo.UpsertAttendance(ctx, juma.ID, "2022-03-02", attendance.Present)

	req, rec := newRequest(http.MethodGet, "/v1/batches/"+morning.ID+"/dates")
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallList(t, "2022-03-01", "2022-03-02"),
	}, rec)

	req, rec = newRequest(http.MethodGet, "/v1/batches/"+morning.ID+"/matrix")
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, attendance.Matrix{
			Columns: []string{"2022-03-01", "2022-03-02"},
			Rows: []attendance.MatrixRow{
				{StudentID: asha.ID, StudentName: "Asha", Cells: map[string]attendance.Status{
					"2022-03-01": attendance.NoRecord, "2022-03-02": attendance.Present,
				}},
				{StudentID: juma.ID, StudentName: "Juma", Cells: map[string]attendance.Status{
					"2022-03-01": attendance.Absent, "2022-03-02": attendance.Present,
				}},
			},
		}),
	}, rec)
}

func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Name", "Age", "Gender"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("buildImportFile() failed: %v", err)
	}
	return buf
}

func newImportRequest(t *testing.T, path string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", "students.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err = fw.Write(content); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func Test_batchApi_importStudents(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mwanza, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Mwanza"})
	morning, _ := deps.batchSvc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: mwanza.ID})

	file := buildImportFile(t, [][]interface{}{
		{"Asha", 10, "F"},
		{"", 12, "M"}, // nameless, reported but not fatal
		{"Juma", "abc", "M"},
	})

	req, rec := newImportRequest(t, "/v1/batches/"+morning.ID+"/import", file.Bytes())
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, importResponse{
			Created: 2,
			Errors:  []roster.RowError{{Line: 3, Reason: roster.ReasonMissingName}},
		}),
	}, rec)

	roll, err := deps.studentSvc.QueryByBatch(ctx, morning.ID)
	if err != nil {
		t.Fatalf("QueryByBatch() error = %v", err)
	}
	if len(roll) != 2 {
		t.Fatalf("batch len = %d, want 2", len(roll))
	}
	if roll[1].Name != "Juma" || roll[1].Age != 0 {
		t.Errorf("unparsable age should default to 0; got %+v", roll[1].Student)
	}

	// a wholly unreadable file aborts
	req, rec = newImportRequest(t, "/v1/batches/"+morning.ID+"/import", []byte("definitely not a workbook"))
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: roster.ErrUnreadableFile.Error()}),
	}, rec)

	// missing multipart file
	req2, rec2 := newRequest(http.MethodPost, "/v1/batches/"+morning.ID+"/import")
	deps.app.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want %v", rec2.Code, http.StatusBadRequest)
	}
}

func Test_batchApi_report(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mwanza, _ := deps.placeSvc.Create(ctx, place.NewPlace{Name: "Mwanza"})
	morning, _ := deps.batchSvc.Create(ctx, batch.NewBatch{Name: "Morning", PlaceID: mwanza.ID})
	asha, _ := deps.studentSvc.Create(ctx, student.NewStudent{BatchID: morning.ID, Name: "Asha"})

	_ = deps.studentRepo.UpsertAttendance(ctx, asha.ID, "2022-03-01", attendance.Present)
	_ = deps.studentRepo.UpsertFee(ctx, asha.ID, "03/2022", attendance.Paid)

	req, rec := newRequest(http.MethodGet, "/v1/batches/"+morning.ID+"/report?month=03%2F2022")
	deps.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %s; want %s", ct, xlsxContentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	want := []string{"Asha", "1", "Paid"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("rows[1][%d] = %s, want %s", i, rows[1][i], cell)
		}
	}

	// bad month key
	req, rec = newRequest(http.MethodGet, "/v1/batches/"+morning.ID+"/report?month=2022-03")
	deps.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: attendance.ErrInvalidMonth.Error()}),
	}, rec)
}
