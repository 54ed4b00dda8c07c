package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-budget-auth/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateFullToken creates a signed HMAC-SHA256 JWT session token carrying
// the user's identity and role.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - userId, email, role: application identity claims
//
// An empty role defaults to [models.RoleUser]. Returns an error if issuer,
// duration or sign key are empty or zero.
func GenerateFullToken(issuer string, user models.User, tokenDuration time.Duration, signKey string) (models.Token, error) {
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	claims := models.AuthClaims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   role,
	}

	return generateToken(issuer, claims, tokenDuration, signKey)
}

// GeneratePendingToken creates a signed HMAC-SHA256 JWT pending token: a
// restricted-scope credential issued after password verification but before
// 2FA completion.
//
// The token carries twoFactorPending=true and no role claim, and is expected
// to be given a lifetime much shorter than a full session token. Every
// protected endpoint must reject it even though its signature is valid.
func GeneratePendingToken(issuer string, user models.User, tokenDuration time.Duration, signKey string) (models.Token, error) {
	claims := models.AuthClaims{
		UserID:           user.UserID,
		Email:            user.Email,
		TwoFactorPending: true,
	}

	return generateToken(issuer, claims, tokenDuration, signKey)
}

func generateToken(issuer string, claims models.AuthClaims, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(claims.UserID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseToken validates the given JWT token string and extracts its
// claims.
//
// Validation includes:
//   - Signature verification using the provided sign key (HS256 only)
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
//
// Token state is never persisted — validity is fully determined by signature
// and embedded expiry, so verification is stateless. Callers guarding
// protected resources must additionally reject tokens whose
// [models.Token.IsPending] is true.
//
// Returns the decoded token model on success, or an error if validation
// fails, claims are missing, or the payload is malformed.
func ValidateAndParseToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	claims := &models.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}

	if claims.UserID == 0 {
		// Legacy tokens carry the user ID only in the subject claim.
		claims.UserID, err = strconv.ParseInt(subject, 10, 64)
		if err != nil {
			return models.Token{}, fmt.Errorf("error occurred during converting subject to user ID: %w", err)
		}
	}

	return models.Token{Token: token, Claims: *claims, SignedString: tokenString}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
