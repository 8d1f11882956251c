package testutils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetTestGinContext(w http.ResponseWriter, req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

// GetAuthedGinContext is GetTestGinContext with the user id the auth
// middleware would have set.
func GetAuthedGinContext(w http.ResponseWriter, req *http.Request, userID string) *gin.Context {
	c := GetTestGinContext(w, req)
	c.Set("userID", userID)
	return c
}
