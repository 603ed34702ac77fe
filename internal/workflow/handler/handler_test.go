package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"kycvault/internal/domain"
	"kycvault/internal/platform/logger"
	"kycvault/internal/workflow/models"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/testutil"
)

type fakeService struct {
	session  *models.Session
	err      error
	lastFile string
	lastBody string
}

func (f *fakeService) Get(_ context.Context, sessionID string) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.session != nil {
		return f.session, nil
	}
	return models.NewSession(sessionID, time.Now()), nil
}

func (f *fakeService) SubmitIdentity(_ context.Context, sessionID string, draft domain.IdentityDraft) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	sess := models.NewSession(sessionID, time.Now())
	sess.Draft = draft
	sess.State = models.StateAwaitingDocument
	return sess, nil
}

func (f *fakeService) SubmitDocument(_ context.Context, sessionID, fileName string, file io.Reader) (*models.Session, error) {
	f.lastFile = fileName
	if file != nil {
		body, _ := io.ReadAll(file)
		f.lastBody = string(body)
	}
	if f.err != nil {
		return nil, f.err
	}
	sess := models.NewSession(sessionID, time.Now())
	sess.State = models.StateClassified
	sess.Record = &domain.VerificationRecord{
		UserName:  "Asha Rao",
		Document:  domain.AadhaarDocument{Name: "Asha Rao", AadhaarNumber: "1234 5678 9012"},
		RiskLevel: domain.RiskLow,
	}
	return sess, nil
}

func (f *fakeService) Reset(_ context.Context, sessionID string) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.NewSession(sessionID, time.Now()), nil
}

func newRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	New(svc, logger.NewNop()).Register(r)
	return r
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func multipartBody(t *testing.T, fileName, contents string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, strings.NewReader(contents)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestGetReturnsCurrentStage(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/verification", nil)
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeSession(t, rr)
	if resp.SessionID != "s1" || resp.State != models.StateCollectingIdentity {
		t.Fatalf("unexpected view: %+v", resp)
	}
}

func TestSubmitIdentityReturnsDocumentStage(t *testing.T) {
	router := newRouter(&fakeService{})

	body := `{"name":"Asha Rao","date_of_birth":"1990-04-12","gender":"Female"}`
	req := httptest.NewRequest(http.MethodPost, "/verification/identity", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeSession(t, rr)
	if resp.State != models.StateAwaitingDocument {
		t.Fatalf("expected awaiting_document, got %q", resp.State)
	}
	if resp.Identity == nil || resp.Identity.Name != "Asha Rao" {
		t.Fatalf("identity view missing: %+v", resp)
	}
}

func TestSubmitIdentityRejectsInvalidBody(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/verification/identity", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}

func TestSubmitIdentityRejectsIncompleteDraft(t *testing.T) {
	router := newRouter(&fakeService{})

	body := `{"name":"","date_of_birth":"1990-04-12","gender":"Female"}`
	req := httptest.NewRequest(http.MethodPost, "/verification/identity", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
}

func TestSubmitDocumentStreamsFileThrough(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	body, contentType := multipartBody(t, "aadhaar.jpg", "img-bytes", nil)
	req := httptest.NewRequest(http.MethodPost, "/verification/document", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if svc.lastFile != "aadhaar.jpg" || svc.lastBody != "img-bytes" {
		t.Fatalf("file not passed through: %q %q", svc.lastFile, svc.lastBody)
	}

	resp := decodeSession(t, rr)
	if resp.State != models.StateClassified || resp.Result == nil {
		t.Fatalf("expected classified view, got %+v", resp)
	}
	if resp.Result.DocumentType != string(domain.DocumentAadhaar) {
		t.Fatalf("unexpected document type %q", resp.Result.DocumentType)
	}
	if resp.Result.Document.AadhaarNumber != "1234 5678 9012" {
		t.Fatalf("document fields not rendered: %+v", resp.Result.Document)
	}
}

func TestSubmitDocumentRequiresFilePart(t *testing.T) {
	router := newRouter(&fakeService{})

	body, contentType := multipartBody(t, "", "", map[string]string{"note": "no file"})
	req := httptest.NewRequest(http.MethodPost, "/verification/document", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
}

func TestSubmitDocumentSurfacesUpstreamFailure(t *testing.T) {
	svc := &fakeService{err: dErrors.New(dErrors.CodeUpstream, "scoring engine unreachable")}
	router := newRouter(svc)

	body, contentType := multipartBody(t, "a.jpg", "img", nil)
	req := httptest.NewRequest(http.MethodPost, "/verification/document", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadGateway, string(dErrors.CodeUpstream))
}

func TestResetReturnsInitialStage(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/verification/reset", nil)
	req = testutil.WithSessionID(req, "s1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeSession(t, rr)
	if resp.State != models.StateCollectingIdentity || resp.Result != nil {
		t.Fatalf("expected fresh workflow, got %+v", resp)
	}
}

func TestMissingSessionIdentityRejected(t *testing.T) {
	router := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/verification", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}
