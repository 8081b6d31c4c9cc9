package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func testContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set("request_id", requestID)
	}
	return c, w
}

func TestSuccessKeepsPayloadUnderData(t *testing.T) {
	c, w := testContext("req-1")
	Success(c, gin.H{"count": 2})

	body := decode(t, w)
	assert.EqualValues(t, 0, body["status_code"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, data["count"])
	assert.NotContains(t, data, "data")
}

func TestSuccessWithPageKeepsListUnderData(t *testing.T) {
	c, w := testContext("")
	SuccessWithPage(c, []gin.H{{"id": 1}, {"id": 2}}, NewPagination(1, 2, 3))

	body := decode(t, w)
	items, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, pagination["total_page"])
}

func TestErrorWithDataAttachesRequestID(t *testing.T) {
	c, w := testContext("req-9")
	ErrorWithData(c, CodeNotFound, "introuvable", gin.H{"error": "NOT_FOUND"})

	body := decode(t, w)
	assert.EqualValues(t, CodeNotFound, body["status_code"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", data["error"])
	assert.Equal(t, "req-9", data["request_id"])
}

func TestAttachRequestIDWrapsNonMapData(t *testing.T) {
	c, _ := testContext("req-2")
	wrapped, ok := attachRequestID(c, []int{1}).(gin.H)
	require.True(t, ok)
	assert.Equal(t, "req-2", wrapped["request_id"])
	assert.Equal(t, []int{1}, wrapped["data"])

	c, _ = testContext("")
	assert.Nil(t, attachRequestID(c, nil))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, int64(0), NewPagination(1, 0, 10).TotalPage)
	assert.Equal(t, int64(4), NewPagination(1, 3, 10).TotalPage)
}

func TestAppErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(CodeInternal, "erreur", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "erreur: disk full", err.Error())
}
