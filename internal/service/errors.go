package service

import apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"

// ── 业务错误 ──
// 消息面向 API 调用方

var (
	ErrUserExists         = apperrors.Conflict("User already exists with this email or username")
	ErrLoginRequired      = apperrors.Validation("Email/Username and password are required")
	ErrInvalidCredentials = apperrors.Unauthenticated("Invalid email/username or password")
	ErrInvalidToken       = apperrors.Unauthenticated("Token is not valid")

	ErrUserNotFound       = apperrors.NotFound("User not found")
	ErrDivisionNotFound   = apperrors.NotFound("Division not found")
	ErrOUNotFound         = apperrors.NotFound("Organizational unit not found")
	ErrCredentialNotFound = apperrors.NotFound("Credential not found")

	ErrAlreadyInDivision = apperrors.Conflict("User already assigned to this division")
	ErrAlreadyInOU       = apperrors.Conflict("User already assigned to this organizational unit")
	ErrDivisionImmutable = apperrors.Validation("Division of a credential cannot be changed")
)
