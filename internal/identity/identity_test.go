package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/elwarcha/gallery/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, From(c))
	Set(c, nil)
	assert.Nil(t, From(c))

	Set(c, &Identity{UserID: 9, Role: constants.RoleAdmin})
	got := From(c)
	if assert.NotNil(t, got) {
		assert.Equal(t, uint(9), got.UserID)
		assert.True(t, got.IsAdmin())
	}
	assert.Equal(t, uint(9), c.GetUint("user_id"))
}

func TestIsAdmin(t *testing.T) {
	var anonymous *Identity
	assert.False(t, anonymous.IsAdmin())
	assert.False(t, (&Identity{Role: constants.RoleCustomer}).IsAdmin())
}
