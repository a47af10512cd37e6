package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"owlfi/backend/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// 运营角色
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Claims 运营后台 Token 声明
type Claims struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器。签发方为外部身份服务，这里主要负责校验；
// Issue 供运维脚本与测试使用。
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
	}
}

// Issue 签发运营 Access Token
func (m *Manager) Issue(operatorID, name, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		OperatorID: operatorID,
		Name:       name,
		Role:       role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    m.issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token（签名算法、有效期、签发方）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	opts := []jwtv5.ParserOption{jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(m.issuer))
	}

	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OperatorID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
