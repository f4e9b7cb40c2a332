// Package errors provides structured error handling with error codes.
//
// Services return *Error values carrying an ErrorCode so that callers and the
// HTTP adapter can react to the kind of failure without string matching.
//
//	import apperrors "github.com/tendant/simple-account/pkg/errors"
//
//	err := apperrors.New(apperrors.ErrCodeUserNotFound, "user not found")
//	err := apperrors.Wrap(dbErr, apperrors.ErrCodeInternal, "failed to save account")
//
//	if apperrors.IsCode(err, apperrors.ErrCodeRoleInvalid) {
//		// reject request
//	}
//
// Wrapped errors keep their cause, so errors.Is against repository sentinels
// such as account.ErrAccountExists still works after wrapping.
package errors
