// Package common contains shared sentinel errors used across client and
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	// Sync authorization.
	ErrNotMemberOfCompany = errors.New("not member of company")

	// Sync cycle errors. Both are recoverable: dirty bits and the pull
	// cursor are left untouched, so the next SyncNow retries safely.
	ErrPushFailed     = errors.New("push failed")
	ErrPullFailed     = errors.New("pull failed")
	ErrSyncInProgress = errors.New("sync already in progress")

	// Server-side guard: an upsert matched an id owned by another company.
	ErrCompanyConflict = errors.New("record belongs to another company")
)
