package claims

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestIsResolved(t *testing.T) {
	require.False(t, (&Claim{Status: StatusPending}).IsResolved())
	require.True(t, (&Claim{Status: StatusApproved}).IsResolved())
	require.True(t, (&Claim{Status: StatusRejected}).IsResolved())
}

func TestCreateClaimRequestRequiresBothFields(t *testing.T) {
	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req CreateClaimRequest
		return c.ShouldBindJSON(&req)
	}

	require.NoError(t, bind(`{"justification":"blue case, cracked corner","contactInfo":"dorm B, room 12"}`))
	require.Error(t, bind(`{"justification":"blue case, cracked corner"}`))
	require.Error(t, bind(`{"contactInfo":"dorm B, room 12"}`))
}
