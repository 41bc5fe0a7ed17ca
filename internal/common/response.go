package common

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap/internal/apperr"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

// FailErr maps a domain error onto the response envelope. Unclassified errors
// surface as 500 without their internal detail.
func FailErr(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument:
		Fail(c, http.StatusBadRequest, 10001, err.Error())
	case apperr.CodeInsufficientBalance:
		Fail(c, http.StatusBadRequest, 10010, err.Error())
	case apperr.CodeNotFound:
		Fail(c, http.StatusNotFound, 40400, err.Error())
	case apperr.CodeConflict:
		Fail(c, http.StatusConflict, 40900, err.Error())
	case apperr.CodeInvalidState:
		Fail(c, http.StatusConflict, 40910, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}
