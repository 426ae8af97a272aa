package jwt

import (
	"errors"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ErfanTavana/unischedule/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Claims 自定义 JWT 声明
// institution_id 是租户隔离的依据，所有业务查询都以它为作用域
type Claims struct {
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	InstitutionID string `json:"institution_id"`
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
// 本服务只负责校验上游身份系统签发的 Token，不提供登录接口；
// GenerateToken 保留给运维脚本和测试使用
type Manager struct {
	secret         []byte
	accessTokenTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// GenerateToken 生成 Access Token
func (m *Manager) GenerateToken(userID, role string, institutionID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        userID,
		Role:          role,
		InstitutionID: strconv.FormatUint(uint64(institutionID), 10),
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    "unischedule",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// InstitutionIDUint 将声明中的租户 ID 解析为数值主键
func (c *Claims) InstitutionIDUint() (uint, error) {
	v, err := strconv.ParseUint(c.InstitutionID, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(v), nil
}
