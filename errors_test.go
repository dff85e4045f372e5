package iotrace

import (
	"testing"

	"github.com/agilira/go-errors"
)

func TestIsErrorCodeMatches(t *testing.T) {
	err := errors.New(ErrCodeInvalidConfig, "bad config")
	if !IsErrorCode(err, ErrCodeInvalidConfig) {
		t.Fatal("IsErrorCode should match the code the error was constructed with")
	}
	if IsErrorCode(err, ErrCodeAuditInit) {
		t.Fatal("IsErrorCode should not match an unrelated code")
	}
}

func TestIsErrorCodeNonCoderError(t *testing.T) {
	if IsErrorCode(assertPlainError(), ErrCodeInvalidConfig) {
		t.Fatal("IsErrorCode should report false for an error with no ErrorCode() method")
	}
}

type plainError struct{}

func (plainError) Error() string { return "plain" }

func assertPlainError() error { return plainError{} }
