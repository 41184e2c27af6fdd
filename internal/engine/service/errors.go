// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"errors"

	"gorm.io/gorm"
)

// Kind 业务错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindRejectedOperation
	KindExpired
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindRejectedOperation:
		return "REJECTED_OPERATION"
	case KindExpired:
		return "EXPIRED"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	}
	return "INTERNAL"
}

// Error 带分类的业务错误
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrAlreadyMember        = &Error{Kind: KindConflict, Msg: "user is already a member of this project"}
	ErrInvitationPending    = &Error{Kind: KindConflict, Msg: "an invitation is already pending for this user"}
	ErrInvitationExpired    = &Error{Kind: KindExpired, Msg: "invitation has expired"}
	ErrInvitationNotPending = &Error{Kind: KindRejectedOperation, Msg: "invitation is no longer pending"}
	ErrOwnerRemoval         = &Error{Kind: KindRejectedOperation, Msg: "the project owner cannot be removed"}
	ErrUserExists           = &Error{Kind: KindConflict, Msg: "username or email already registered"}
	ErrBadCredentials       = &Error{Kind: KindForbidden, Msg: "incorrect username or password"}
	ErrWrongPassword        = &Error{Kind: KindInvalidArgument, Msg: "current password is incorrect"}
)

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

// KindOf 返回错误分类，非业务错误归为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// notFoundOr gorm.ErrRecordNotFound 转为 NOT_FOUND，其它错误原样返回
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msg)
	}
	return err
}
