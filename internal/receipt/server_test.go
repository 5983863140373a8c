package receipt

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bonscan/bonscan/internal/parser"
)

// multipartUpload builds a multipart request body with a single file field
func multipartUpload(filename string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		db         *mockDB
		store      *mockStorage
		recognizer *mockRecognizer
		server     *Server
	)

	newServer := func(auth BasicAuth) *Server {
		engine, err := parser.New(parser.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		service := NewServiceWithDeps(
			db, recognizer, store, engine,
			&fixedIDGenerator{id: "test-id"},
			&fixedTimeSource{now: time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)},
		)
		return NewServer(service, auth)
	}

	BeforeEach(func() {
		db = newMockDB()
		store = newMockStorage()
		recognizer = &mockRecognizer{lines: billaLines()}
		server = newServer(BasicAuth{})
	})

	Describe("POST /api/receipts", func() {
		It("uploads, extracts and returns the receipt", func() {
			body, contentType := multipartUpload("bon.jpg", []byte("image-data"))
			req := httptest.NewRequest("POST", "/api/receipts", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var got Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.ID).To(Equal("test-id"))
			Expect(got.StoreName).To(Equal("BILLA"))
			Expect(got.Items).To(HaveLen(5))
			Expect(*got.TotalCents).To(Equal(int64(1161)))
		})

		It("rejects a request without a file", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			Expect(writer.Close()).To(Succeed())

			req := httptest.NewRequest("POST", "/api/receipts", body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("No file"))
		})
	})

	Describe("GET /api/receipts", func() {
		It("returns all receipts", func() {
			body, contentType := multipartUpload("bon.jpg", []byte("image-data"))
			req := httptest.NewRequest("POST", "/api/receipts", body)
			req.Header.Set("Content-Type", contentType)
			server.ServeHTTP(httptest.NewRecorder(), req)

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/receipts", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))

			var got []Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got).To(HaveLen(1))
		})
	})

	Describe("GET /api/receipts/{id}", func() {
		It("returns 404 for an unknown receipt", func() {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/receipts/missing", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns the receipt", func() {
			total := int64(500)
			db.receipts["r1"] = &Receipt{ID: "r1", StoreName: "REWE", TotalCents: &total}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/receipts/r1", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var got Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.StoreName).To(Equal("REWE"))
		})
	})

	Describe("GET /api/receipts/{id}/file", func() {
		It("returns the stored file with its content type", func() {
			db.receipts["r1"] = &Receipt{ID: "r1", Filename: "r1_bon.jpg", ContentType: "image/jpeg"}
			store.files["r1_bon.jpg"] = []byte("image-data")

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/receipts/r1/file", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/jpeg"))
			Expect(rec.Body.Bytes()).To(Equal([]byte("image-data")))
		})
	})

	Describe("POST /api/receipts/{id}/reparse", func() {
		It("re-runs extraction over the stored lines", func() {
			db.receipts["r1"] = &Receipt{ID: "r1", Lines: billaLines()}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/receipts/r1/reparse", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var got Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.StoreName).To(Equal("BILLA"))
			Expect(got.Items).To(HaveLen(5))
		})

		It("rejects a receipt without stored lines", func() {
			db.receipts["r1"] = &Receipt{ID: "r1"}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/receipts/r1/reparse", nil))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/receipts/{id}/review", func() {
		It("marks the receipt as reviewed", func() {
			db.receipts["r1"] = &Receipt{ID: "r1", Issues: []parser.Issue{{Kind: parser.IssueNoItemsFound, Critical: true}}}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/receipts/r1/review", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var got Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.Reviewed).To(BeTrue())
		})
	})

	Describe("DELETE /api/receipts/{id}", func() {
		It("deletes the receipt", func() {
			db.receipts["r1"] = &Receipt{ID: "r1", Filename: "r1_bon.jpg"}
			store.files["r1_bon.jpg"] = []byte("image-data")

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/receipts/r1", nil))

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(db.receipts).To(BeEmpty())
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			server = newServer(BasicAuth{Username: "scan", Password: "secret"})
		})

		It("rejects requests without credentials", func() {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/receipts", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("rejects wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/receipts", nil)
			req.SetBasicAuth("scan", "wrong")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/receipts", nil)
			req.SetBasicAuth("scan", "secret")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
