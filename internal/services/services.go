// Package services holds the business logic between the HTTP handlers
// and the repositories. Review and quiz sessions are kept in memory,
// keyed by user; everything else goes straight to storage.
package services

import "errors"

var (
	errNoActiveSession = errors.New("no active session")
	errSessionComplete = errors.New("session already complete")
)
