package guestcart

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDecodeDropsInvalidEntries(t *testing.T) {
	raw := `[
		{"paintingId": 1, "quantity": 2},
		{"paintingId": 0, "quantity": 1},
		{"paintingId": 2, "quantity": 21},
		{"paintingId": 3, "quantity": 1, "widthCm": -4},
		{"paintingId": "x", "quantity": 1},
		{"paintingId": 4, "widthCm": 60, "heightCm": 80, "quantity": 3}
	]`
	lines := Decode(raw)
	require.Len(t, lines, 2)
	assert.Equal(t, uint(1), lines[0].PaintingID)
	assert.Equal(t, "4|60|80", lines[1].Key())
}

func TestDecodeGarbageIsEmpty(t *testing.T) {
	assert.Empty(t, Decode("not json"))
	assert.Empty(t, Decode(`{"v": 99, "lines": [{"paintingId": 1, "quantity": 1}]}`))
	assert.Empty(t, Decode(""))
}

func TestEncodeRoundTripsEnvelope(t *testing.T) {
	in := []Line{{PaintingID: 7, Quantity: 1}, {PaintingID: 8, WidthCm: intPtr(40), HeightCm: intPtr(50), Quantity: 2}}
	raw, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, raw, `"v":1`)
	assert.Equal(t, in, Decode(raw))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseKey(t *testing.T) {
	id, w, h, err := ParseKey("12|-|-")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
	assert.Nil(t, w)
	assert.Nil(t, h)

	id, w, h, err = ParseKey("5|60|90")
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
	assert.Equal(t, 60, *w)
	assert.Equal(t, 90, *h)

	for _, bad := range []string{"", "5", "0|-|-", "a|-|-", "5|x|-", "5|-1|-", "1|2|3|4"} {
		_, _, _, err := ParseKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}

func TestCookieStoreWritesAndDeletes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err := Encode([]Line{{PaintingID: 3, Quantity: 2}})
	require.NoError(t, err)
	c.Request.AddCookie(&http.Cookie{Name: "guest_cart_v1", Value: url.QueryEscape(value)})

	store := NewCookieStore(c, CookieConfig{Name: "guest_cart_v1", MaxAge: 60})
	require.Len(t, store.Lines(), 1)

	require.NoError(t, store.Save(nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "guest_cart_v1", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].HttpOnly)
}
