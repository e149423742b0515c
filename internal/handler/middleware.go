package handler

import (
	"net/http"

	"github.com/blues/launchpad/internal/auth"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

// 授权证明请求头
const (
	HeaderAuthAddress   = "X-Auth-Address"
	HeaderAuthMessage   = "X-Auth-Message"
	HeaderAuthSignature = "X-Auth-Signature"
)

// ProofMiddleware 把请求头中的授权证明放入请求 context，缺省时直接放行
func ProofMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.GetHeader(HeaderAuthAddress)
		if address == "" {
			c.Next()
			return
		}

		addr, err := parseAddress(address)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			c.Abort()
			return
		}
		sig, err := hexutil.Decode(c.GetHeader(HeaderAuthSignature))
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的签名: "+err.Error())
			c.Abort()
			return
		}

		proof := auth.Proof{
			Address:   addr,
			Message:   c.GetHeader(HeaderAuthMessage),
			Signature: sig,
		}
		c.Request = c.Request.WithContext(auth.WithProofs(c.Request.Context(), proof))
		c.Next()
	}
}
