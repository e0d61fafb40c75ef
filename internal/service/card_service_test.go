package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func generateForm() map[string]string {
	return map[string]string{
		"firstName":              "Jane",
		"lastName":               "Doe",
		"idNumber":               "1234",
		"position":               "Employee",
		"type":                   "Employee",
		"emergencyContactName":   "John Doe",
		"emergencyContactNumber": "555-0102",
		"signatoryName":          "Ada Admin",
		"signatoryPosition":      "HR Director",
		"companyAddress":         "1 Example Street, Example City",
		"barcodeValue":           "1234",
	}
}

func bindGenerateForm(t *testing.T, fields map[string]string) error {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/api/id/generate", &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req

	var dto GenerateCardRequest
	return c.ShouldBind(&dto)
}

func TestGenerateCardRequestBinding(t *testing.T) {
	if err := bindGenerateForm(t, generateForm()); err != nil {
		t.Fatalf("complete form rejected: %v", err)
	}

	// Every field appears on a rendered face for both categories, so all are
	// required.
	for field := range generateForm() {
		t.Run("missing "+field, func(t *testing.T) {
			fields := generateForm()
			delete(fields, field)
			if err := bindGenerateForm(t, fields); err == nil {
				t.Fatalf("form without %s accepted", field)
			}
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		fields := generateForm()
		fields["type"] = "Contractor"
		if err := bindGenerateForm(t, fields); err == nil {
			t.Fatal("form with unknown category accepted")
		}
	})
}
