package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTranslateErrorsFallsBackToDetail(t *testing.T) {
	fields := TranslateErrors(errors.New("strconv.ParseInt: parsing \"abc\": invalid syntax"))
	if len(fields) != 1 || fields[DetailField] == "" {
		t.Fatalf("expected a single detail entry, got %v", fields)
	}
}

func TestBindURIReportsTranslatedFields(t *testing.T) {
	Setup()
	gin.SetMode(gin.TestMode)

	type positiveURI struct {
		ID int `uri:"state_id" binding:"min=1"`
	}

	var fields map[string]string
	r := gin.New()
	r.GET("/states/:state_id", func(c *gin.Context) {
		var uri positiveURI
		fields = BindURI(c, &uri)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/states/0", nil))

	msg, ok := fields["state_id"]
	if !ok {
		t.Fatalf("expected a state_id entry, got %v", fields)
	}
	if msg == "" {
		t.Fatal("expected a translated message")
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/states/7", nil))
	if fields != nil {
		t.Fatalf("expected no errors for a valid id, got %v", fields)
	}
}
