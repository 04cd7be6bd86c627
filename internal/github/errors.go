// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/jmgilman/go/errors"
)

var (
	// ErrNetwork marks requests that failed before a response arrived.
	ErrNetwork = stderrors.New("network request failed")

	// ErrParse marks response bodies that are not a JSON object.
	ErrParse = stderrors.New("response body is not a JSON object")

	// ErrStatus marks responses with a non-2xx status.
	ErrStatus = stderrors.New("unexpected response status")
)

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return stderrors.Is(err, ErrNetwork)
}

// IsParseError reports whether err is an undecodable response body.
func IsParseError(err error) bool {
	return stderrors.Is(err, ErrParse)
}

// IsStatusError reports whether err is a non-2xx response.
func IsStatusError(err error) bool {
	return stderrors.Is(err, ErrStatus)
}

func newNetworkError(cause error, url string) error {
	err := errors.Wrap(fmt.Errorf("%w: %w", ErrNetwork, cause), errors.CodeNetwork, "failed to fetch repository")
	return errors.WithContext(err, "url", url)
}

func newParseError(cause error, url string) error {
	err := errors.Wrap(fmt.Errorf("%w: %w", ErrParse, cause), errors.CodeInvalidInput, "failed to parse repository")
	return errors.WithContext(err, "url", url)
}

// newStatusError classifies a non-2xx response by its status code. message
// is GitHub's own explanation from the body, when there is one. GitHub
// answers an exhausted rate limit with 403, so rateLimited overrides the
// status.
func newStatusError(statusCode int, rateLimited bool, message, url string) error {
	code := statusErrorCode(statusCode)
	if rateLimited {
		code = errors.CodeRateLimit
	}

	cause := fmt.Errorf("%w: %d %s", ErrStatus, statusCode, http.StatusText(statusCode))
	if message == "" {
		message = "request failed"
	}
	err := errors.Wrap(cause, code, message)
	err = errors.WithContext(err, "status_code", statusCode)
	return errors.WithContext(err, "url", url)
}

func statusErrorCode(statusCode int) errors.ErrorCode {
	switch statusCode {
	case http.StatusNotFound:
		return errors.CodeNotFound
	case http.StatusUnauthorized:
		return errors.CodeUnauthorized
	case http.StatusForbidden:
		return errors.CodeForbidden
	case http.StatusTooManyRequests:
		return errors.CodeRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.CodeInvalidInput
	}
	if statusCode >= 500 { //nolint:mnd
		return errors.CodeUnavailable
	}
	return errors.CodeInternal
}
