package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nguyentantai21042004/audio-sentinel/internal/config"
	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
	"github.com/nguyentantai21042004/audio-sentinel/internal/pipeline"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

type fakeStore struct {
	records     map[string]store.SummaryRecord
	order       []string
	lastFilters *store.SearchFilters
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]store.SummaryRecord{}}
}

func (f *fakeStore) Create(ctx context.Context, rec *store.SummaryRecord) (*store.SummaryRecord, error) {
	rec.ID = primitive.NewObjectID()
	f.records[rec.ID.Hex()] = *rec
	f.order = append(f.order, rec.ID.Hex())
	return rec, nil
}

func (f *fakeStore) List(ctx context.Context) ([]store.SummaryRecord, error) {
	out := []store.SummaryRecord{}
	for _, id := range f.order {
		if rec, ok := f.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*store.SummaryRecord, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, store.ErrInvalidID
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return store.ErrInvalidID
	}
	if _, ok := f.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeStore) DeleteAll(ctx context.Context) (int64, error) {
	count := int64(len(f.records))
	f.records = map[string]store.SummaryRecord{}
	f.order = nil
	return count, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields store.UpdateFields) (*store.SummaryRecord, error) {
	rec, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fields.Title != nil {
		rec.Title = *fields.Title
	}
	if fields.Resolved != nil {
		rec.Resolved = *fields.Resolved
	}
	f.records[id] = *rec
	return rec, nil
}

func (f *fakeStore) UpdateCaseNumber(ctx context.Context, id string, caseNumber int) error {
	rec, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rec.CaseNumber = &caseNumber
	f.records[id] = *rec
	return nil
}

func (f *fakeStore) BulkUpdateCaseNumber(ctx context.Context, ids []string, caseNumber int) (int64, error) {
	var count int64
	for _, id := range ids {
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			return 0, store.ErrInvalidID
		}
		if rec, ok := f.records[id]; ok {
			rec.CaseNumber = &caseNumber
			f.records[id] = rec
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Search(ctx context.Context, filters store.SearchFilters) ([]store.SummaryRecord, error) {
	f.lastFilters = &filters
	out := []store.SummaryRecord{}
	for _, id := range f.order {
		rec := f.records[id]
		if filters.Resolved != nil && rec.Resolved != *filters.Resolved {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) LocationsForCase(ctx context.Context, caseNumber int) ([]store.CaseLocation, error) {
	out := []store.CaseLocation{}
	for _, rec := range f.records {
		if rec.CaseNumber != nil && *rec.CaseNumber == caseNumber {
			out = append(out, store.CaseLocation{Title: rec.Title, Location: rec.Location, ThreatLevel: rec.ThreatLevel})
		}
	}
	return out, nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

type fakePipeline struct {
	progress  pipeline.Progress
	lastFiles []pipeline.File
	lastOpts  pipeline.Options
	result    *pipeline.Result
	err       error
}

func (f *fakePipeline) Ingest(ctx context.Context, files []pipeline.File, opts pipeline.Options) (*pipeline.Result, error) {
	f.lastFiles = files
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &pipeline.Result{}, nil
}

func (f *fakePipeline) Progress() *pipeline.Progress { return &f.progress }

func newTestServer(t *testing.T, fst *fakeStore, fp *fakePipeline) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0},
		Paths:  config.PathsConfig{Temp: t.TempDir()},
	}
	return New(cfg, fst, fp, logger.New("error"))
}

func doRequest(s *Server, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func doJSON(s *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	return doRequest(s, method, path, body, "application/json")
}

func TestCreateSummary(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	w := doJSON(s, http.MethodPost, "/api/summaries", map[string]interface{}{
		"title":    "Routine Call",
		"content":  "nothing unusual to report today",
		"summary":  "calm day",
		"date":     "2024-01-15",
		"location": "sector 9",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var rec store.SummaryRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if rec.Date != "2024-01-15" {
		t.Errorf("Date = %q, want round-tripped literal", rec.Date)
	}
	if rec.ContentLength != 5 {
		t.Errorf("ContentLength = %d, want 5", rec.ContentLength)
	}
	if rec.SummaryLength != 2 {
		t.Errorf("SummaryLength = %d, want 2", rec.SummaryLength)
	}
	if rec.ID.IsZero() {
		t.Error("created record should carry a store-assigned id")
	}
}

func TestCreateSummaryInvalidDate(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	for _, date := range []string{"15-01-2024", "2024/01/15", "yesterday", "2024-13-40"} {
		w := doJSON(s, http.MethodPost, "/api/summaries", map[string]interface{}{
			"title": "x", "date": date,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("date %q: status = %d, want 400", date, w.Code)
		}
	}
}

func TestGetSummaryErrors(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	if w := doJSON(s, http.MethodGet, "/api/summaries/not-hex", nil); w.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d, want 400", w.Code)
	}
	missing := primitive.NewObjectID().Hex()
	if w := doJSON(s, http.MethodGet, "/api/summaries/"+missing, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestDeleteSummary(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	created, _ := fst.Create(context.Background(), &store.SummaryRecord{Title: "t"})

	if w := doJSON(s, http.MethodDelete, "/api/summaries/"+created.ID.Hex(), nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", w.Code)
	}
	if w := doJSON(s, http.MethodDelete, "/api/summaries/"+created.ID.Hex(), nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestDeleteAllIdempotent(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	fst.Create(context.Background(), &store.SummaryRecord{Title: "a"})
	fst.Create(context.Background(), &store.SummaryRecord{Title: "b"})

	var resp struct {
		DeletedCount int64 `json:"deleted_count"`
	}

	w := doJSON(s, http.MethodDelete, "/api/summaries", nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.DeletedCount != 2 {
		t.Errorf("first delete_all count = %d, want 2", resp.DeletedCount)
	}

	w = doJSON(s, http.MethodDelete, "/api/summaries", nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.DeletedCount != 0 {
		t.Errorf("second delete_all count = %d, want 0", resp.DeletedCount)
	}
}

func TestSearchFilterParsing(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	w := doJSON(s, http.MethodGet,
		"/api/summaries/search?title=warehouse&key_terms=threat,%20weapon&resolved=true&case_number=7&date_after=2024-01-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	f := fst.lastFilters
	if f == nil {
		t.Fatal("search filters were not passed to the store")
	}
	if f.Title != "warehouse" {
		t.Errorf("Title = %q", f.Title)
	}
	if len(f.KeyTerms) != 2 || f.KeyTerms[0] != "threat" || f.KeyTerms[1] != "weapon" {
		t.Errorf("KeyTerms = %v", f.KeyTerms)
	}
	if f.Resolved == nil || *f.Resolved != true {
		t.Errorf("Resolved = %v", f.Resolved)
	}
	if f.CaseNumber == nil || *f.CaseNumber != 7 {
		t.Errorf("CaseNumber = %v", f.CaseNumber)
	}
	if f.DateAfter != "2024-01-01" {
		t.Errorf("DateAfter = %q", f.DateAfter)
	}
}

func TestSearchResolvedSubset(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	fst.Create(context.Background(), &store.SummaryRecord{Title: "open", Resolved: false})
	fst.Create(context.Background(), &store.SummaryRecord{Title: "closed", Resolved: true})

	w := doJSON(s, http.MethodGet, "/api/summaries/search?resolved=true", nil)

	var records []store.SummaryRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(records) != 1 || records[0].Title != "closed" {
		t.Errorf("records = %+v, want only the resolved one", records)
	}
}

func TestSearchBadNumeric(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	w := doJSON(s, http.MethodGet, "/api/summaries/search?case_number=seven", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBulkUpdateCaseNumber(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	a, _ := fst.Create(context.Background(), &store.SummaryRecord{Title: "a"})
	b, _ := fst.Create(context.Background(), &store.SummaryRecord{Title: "b"})

	w := doJSON(s, http.MethodPatch, "/api/summaries/case_number", map[string]interface{}{
		"ids":         []string{a.ID.Hex(), b.ID.Hex()},
		"case_number": 7,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ModifiedCount int64 `json:"modified_count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ModifiedCount != 2 {
		t.Errorf("modified_count = %d, want 2", resp.ModifiedCount)
	}

	for _, id := range []string{a.ID.Hex(), b.ID.Hex()} {
		rec := fst.records[id]
		if rec.CaseNumber == nil || *rec.CaseNumber != 7 {
			t.Errorf("record %s case number = %v, want 7", id, rec.CaseNumber)
		}
	}
}

func TestBulkUpdateCaseNumberMissingFields(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	w := doJSON(s, http.MethodPatch, "/api/summaries/case_number", map[string]interface{}{
		"ids": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCaseLocations(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	if w := doJSON(s, http.MethodGet, "/api/summaries/locations", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing param: status = %d, want 400", w.Code)
	}

	caseNumber := 3
	fst.Create(context.Background(), &store.SummaryRecord{
		Title: "dockside", Location: "40.7, -74.0", ThreatLevel: "4", CaseNumber: &caseNumber,
	})

	w := doJSON(s, http.MethodGet, "/api/summaries/locations?case_number=3", nil)
	var locations []store.CaseLocation
	if err := json.Unmarshal(w.Body.Bytes(), &locations); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(locations) != 1 || locations[0].Location != "40.7, -74.0" {
		t.Errorf("locations = %+v", locations)
	}
}

func TestUpdateSummary(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	created, _ := fst.Create(context.Background(), &store.SummaryRecord{Title: "before"})

	w := doJSON(s, http.MethodPatch, "/api/summaries/"+created.ID.Hex(), map[string]interface{}{
		"title":    "after",
		"resolved": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var rec store.SummaryRecord
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.Title != "after" || !rec.Resolved {
		t.Errorf("updated record = %+v", rec)
	}
}

func TestUpdateSummaryInvalidDate(t *testing.T) {
	fst := newFakeStore()
	s := newTestServer(t, fst, &fakePipeline{})

	created, _ := fst.Create(context.Background(), &store.SummaryRecord{Title: "t"})

	w := doJSON(s, http.MethodPatch, "/api/summaries/"+created.ID.Hex(), map[string]interface{}{
		"date": "not-a-date",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func multipartUpload(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for name, value := range fields {
		mw.WriteField(name, value)
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	mw.Close()
	return buf, mw.FormDataContentType()
}

func TestUploadAudio(t *testing.T) {
	fp := &fakePipeline{result: &pipeline.Result{SavedFiles: []string{"data/uploads/x/a.wav"}}}
	s := newTestServer(t, newFakeStore(), fp)

	body, contentType := multipartUpload(t,
		map[string]string{"location": "pier 4", "case_number": "12", "latitude": "40.7", "longitude": "-74.0"},
		map[string][]byte{"a.wav": []byte("audio-bytes")},
	)

	w := doRequest(s, http.MethodPost, "/upload_audio", body.Bytes(), contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	if len(fp.lastFiles) != 1 || fp.lastFiles[0].Name != "a.wav" {
		t.Errorf("files passed to pipeline = %+v", fp.lastFiles)
	}
	if fp.lastOpts.CaseNumber == nil || *fp.lastOpts.CaseNumber != 12 {
		t.Errorf("CaseNumber = %v, want 12", fp.lastOpts.CaseNumber)
	}
	if fp.lastOpts.Latitude == nil || *fp.lastOpts.Latitude != 40.7 {
		t.Errorf("Latitude = %v, want 40.7", fp.lastOpts.Latitude)
	}
}

func TestUploadAudioNonNumericCaseNumberIgnored(t *testing.T) {
	fp := &fakePipeline{}
	s := newTestServer(t, newFakeStore(), fp)

	body, contentType := multipartUpload(t,
		map[string]string{"location": "pier 4", "case_number": "not-a-number"},
		map[string][]byte{"a.wav": []byte("audio")},
	)

	w := doRequest(s, http.MethodPost, "/upload_audio", body.Bytes(), contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if fp.lastOpts.CaseNumber != nil {
		t.Errorf("CaseNumber = %v, want nil for non-numeric input", fp.lastOpts.CaseNumber)
	}
}

func TestUploadAudioMissingFiles(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	body, contentType := multipartUpload(t, map[string]string{"location": "pier 4"}, nil)
	w := doRequest(s, http.MethodPost, "/upload_audio", body.Bytes(), contentType)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadAudioAllFilesFailed(t *testing.T) {
	fp := &fakePipeline{result: &pipeline.Result{
		Failures: []pipeline.FileFailure{
			{Filename: "a.wav", Err: errors.New("transcription failed")},
		},
	}}
	s := newTestServer(t, newFakeStore(), fp)

	body, contentType := multipartUpload(t,
		map[string]string{"location": "pier 4"},
		map[string][]byte{"a.wav": []byte("audio")},
	)

	w := doRequest(s, http.MethodPost, "/upload_audio", body.Bytes(), contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	raw := w.Body.String()
	if strings.Contains(raw, `"summaries":null`) || strings.Contains(raw, `"saved_files":null`) {
		t.Errorf("empty result fields must marshal as []: %s", raw)
	}

	var resp struct {
		SavedFiles []string              `json:"saved_files"`
		Summaries  []store.SummaryRecord `json:"summaries"`
		Failures   []struct {
			Filename string `json:"filename"`
			Error    string `json:"error"`
		} `json:"failures"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].Filename != "a.wav" {
		t.Errorf("failures = %+v", resp.Failures)
	}
}

func TestUploadAudioValidationErrorMapsTo400(t *testing.T) {
	fp := &fakePipeline{err: &pipeline.ValidationError{Msg: "coordinates out of range"}}
	s := newTestServer(t, newFakeStore(), fp)

	body, contentType := multipartUpload(t,
		map[string]string{"latitude": "95", "longitude": "10"},
		map[string][]byte{"a.wav": []byte("audio")},
	)

	w := doRequest(s, http.MethodPost, "/upload_audio", body.Bytes(), contentType)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestProgressStreamIdle(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	w := doJSON(s, http.MethodGet, "/progress", nil)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}
	// Idle counters are 0/0: one message, then the stream closes.
	if got := w.Body.String(); got != "data: 0/0\n\n" {
		t.Errorf("body = %q, want single 0/0 event", got)
	}
}

func TestProgressStreamFinishedRun(t *testing.T) {
	fp := &fakePipeline{}
	fp.progress.Reset(2)
	fp.progress.Step()
	fp.progress.Step()
	s := newTestServer(t, newFakeStore(), fp)

	w := doJSON(s, http.MethodGet, "/progress", nil)

	// A finished run reports total/total once and closes.
	if got := w.Body.String(); got != "data: 2/2\n\n" {
		t.Errorf("body = %q, want single 2/2 event", got)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, newFakeStore(), &fakePipeline{})

	w := doJSON(s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
