package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/response"
)

// Pinger reports store connectivity for /health.
type Pinger func(ctx context.Context) error

// Handler HTTP 处理器，只做请求解析和响应整形
type Handler struct {
	postService service.PostService
	authService service.AuthService
	ping        Pinger
}

func NewHandler(postService service.PostService, authService service.AuthService, ping Pinger) *Handler {
	return &Handler{postService: postService, authService: authService, ping: ping}
}

// postID parses the :id path parameter; it writes a 400 and returns false when invalid.
func postID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid post id")
		return 0, false
	}
	return id, true
}
