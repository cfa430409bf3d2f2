package middleware

import (
    "fmt"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"

    "github.com/d60-Lab/campus-moments/pkg/response"
)

// ContextUserKey 认证中间件写入的身份键
const ContextUserKey = "user_id"

// Auth 要求 Bearer JWT，解出 subject 作为当前身份
func Auth(secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        sub, err := subjectFromHeader(c, secret)
        if err != nil {
            response.Unauthorized(c, err.Error())
            c.Abort()
            return
        }
        c.Set(ContextUserKey, sub)
        c.Next()
    }
}

// OptionalAuth 有 token 就解身份，没有也放行（只读接口用）
func OptionalAuth(secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        if c.GetHeader("Authorization") != "" {
            if sub, err := subjectFromHeader(c, secret); err == nil {
                c.Set(ContextUserKey, sub)
            }
        }
        c.Next()
    }
}

func subjectFromHeader(c *gin.Context, secret string) (string, error) {
    h := c.GetHeader("Authorization")
    if !strings.HasPrefix(h, "Bearer ") {
        return "", fmt.Errorf("missing bearer token")
    }
    tok, err := jwt.Parse(strings.TrimPrefix(h, "Bearer "), func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", fmt.Errorf("invalid token")
    }
    sub, err := tok.Claims.GetSubject()
    if err != nil || sub == "" {
        return "", fmt.Errorf("token has no subject")
    }
    return sub, nil
}
