package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hullzero/server/core/models"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", sql.ErrNoRows, http.StatusNotFound},
		{"invalid input", models.NewInvalidInput("test", errors.New("bad")), http.StatusBadRequest},
		{"insufficient history", models.NewInsufficientHistory("test", errors.New("empty")), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			respondError(ctx, c.err, "Operation failed")
			if w.Code != c.want {
				t.Fatalf("status = %d, want %d", w.Code, c.want)
			}
			body := w.Body.String()
			if !strings.Contains(body, "Operation failed") {
				t.Fatalf("body must carry the caller message: %s", body)
			}
			if !strings.Contains(body, "detail") {
				t.Fatalf("body must carry the error detail: %s", body)
			}
		})
	}
}
