// errors.go: error taxonomy for iotrace
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import "github.com/agilira/go-errors"

// Error codes surfaced by iotrace constructors. Only construction-time
// failures return an error - see SPEC_FULL.md, Errors: the four hot-path event methods
// never do, so that the interception layer can never fail by calling in.
const (
	ErrCodeInvalidConfig    = "IOTRACE_INVALID_CONFIG"
	ErrCodeAuditInit        = "IOTRACE_AUDIT_INIT_FAILED"
	ErrCodeAuditBackend     = "IOTRACE_AUDIT_BACKEND_ERROR"
	ErrCodeForkHookRegister = "IOTRACE_FORK_HOOK_REGISTER_FAILED"
)

// IsErrorCode reports whether err carries the given iotrace error code.
func IsErrorCode(err error, code string) bool {
	coder, ok := err.(errors.ErrorCoder)
	return ok && string(coder.ErrorCode()) == code
}
