package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"rainsimdb/src/auth"
)

// ErrCollectionExists is returned when create targets a collection that is already defined.
var ErrCollectionExists = errors.New("collection already exists")

// Server error codes the bootstrap distinguishes.
const (
	codeAuthenticationFailed = 18
	codeNamespaceExists      = 48
	codeUserAlreadyExists    = 51003
)

// classify maps driver errors onto the sentinels callers test with errors.Is.
// The driver error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		switch {
		case serverErr.HasErrorCode(codeAuthenticationFailed):
			return fmt.Errorf("%w: %w", auth.ErrAuthenticationFailed, err)
		case serverErr.HasErrorCode(codeUserAlreadyExists):
			return fmt.Errorf("%w: %w", auth.ErrUserAlreadyExists, err)
		case serverErr.HasErrorCode(codeNamespaceExists):
			return fmt.Errorf("%w: %w", ErrCollectionExists, err)
		}
	}

	// Handshake failures surface as connection errors that only carry the
	// server's code name in their message.
	msg := err.Error()
	if strings.Contains(msg, "AuthenticationFailed") || strings.Contains(msg, "auth error") {
		return fmt.Errorf("%w: %w", auth.ErrAuthenticationFailed, err)
	}

	return err
}
