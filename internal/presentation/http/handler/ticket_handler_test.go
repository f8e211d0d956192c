package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindGoodsLine(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req GoodsLineRequest
	return c.ShouldBindJSON(&req)
}

func TestGoodsLineRequest_UnitPriceBinding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"zero price accepted", `{"description":"warranty replacement","quantity":1,"unit_price":0,"gst_rate":18}`, false},
		{"price omitted accepted", `{"description":"sample piece","quantity":2,"gst_rate":18}`, false},
		{"negative price rejected", `{"description":"x","quantity":1,"unit_price":-5}`, true},
		{"zero quantity rejected", `{"description":"x","quantity":0,"unit_price":10}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindGoodsLine(t, tt.body)
			if tt.wantErr && err == nil {
				t.Fatal("expected binding error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("binding failed: %v", err)
			}
		})
	}
}
