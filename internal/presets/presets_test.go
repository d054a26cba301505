package presets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.Sections, 2)
	assert.Len(t, c.Sections[0].Locations, 10)
	assert.True(t, c.IsAffiliated("图书馆多功能厅"))
	assert.False(t, c.IsAffiliated("线上活动"))
	assert.False(t, c.IsAffiliated("火星"))
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("sections:\n  - name: x\n    locations:\n      - value: 操场\n"))
	require.NoError(t, err)
	assert.Equal(t, "操场", c.Sections[0].Locations[0].Label)

	_, err = Parse([]byte("sections:\n  - name: x\n    locations:\n      - label: 空\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("sections: [unterminated"))
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := Default()
	require.NoError(t, err)
	r := gin.New()
	r.GET("/locations", c.Handler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool      `json:"success"`
		Data    Catalogue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Sections, 2)
}
