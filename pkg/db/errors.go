package db

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsNotFound reports whether err is a Firestore missing-document error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// IsAborted reports whether err is a transaction contention error that a
// caller may retry.
func IsAborted(err error) bool {
	return status.Code(err) == codes.Aborted
}
