package auth

import (
	"errors"
	"time"

	"github.com/formadoc/FormaSign/internal/config"
	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JWT struct {
	logger    *zap.SugaredLogger
	jwtSecret string
}

type JWTInterface interface {
	GenerateAccessToken(payload JWTPayload) (string, error)
	VerifyJwtToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	return &JWT{
		jwtSecret: cfg.JWT_SECRET,
		logger:    logger,
	}
}

// JWTPayload identifies the authenticated session. Tokens are issued by the
// main platform; this service only verifies them.
type JWTPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	Type string     `json:"type"`
	IAT  int64      `json:"iat"`
	EXP  int64      `json:"exp"`
}

func (j JWT) GenerateAccessToken(payload JWTPayload) (string, error) {
	j.logger.Debugf("Generate access token with payload: %v", payload)

	claims := jwt.MapClaims{
		"user": payload,
		"type": constant.JWT_TYPE_ACCESS,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(5 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.jwtSecret))
}

func (j JWT) VerifyJwtToken(token string) (*JWTClaims, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	})
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, errors.New("jwt token is not valid")
	}

	user, ok := claims["user"].(map[string]interface{})
	if !ok {
		return nil, errors.New("invalid token: user field is missing or malformed")
	}

	tokenType, _ := claims["type"].(string)

	payload := JWTPayload{}
	if id, ok := user["id"].(string); ok {
		payload.ID = id
	}
	if email, ok := user["email"].(string); ok {
		payload.Email = email
	}
	if companyId, ok := user["companyId"].(string); ok {
		payload.CompanyID = companyId
	}

	out := &JWTClaims{
		User: payload,
		Type: tokenType,
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IAT = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.EXP = int64(exp)
	}

	return out, nil
}
