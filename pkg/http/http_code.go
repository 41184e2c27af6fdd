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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// Unauthorized 401
	Unauthorized           = failed(4401, "Unauthorized")
	AuthenticationFailed   = failed(4402, "Authentication failed")
	AuthorizationIncorrect = failed(4403, "The authorization format in the request header is incorrect")
	AuthorizationEmpty     = failed(4404, "Authorization is empty")
	InvalidToken           = failed(4405, "Invalid token")
	TokenBeEmpty           = failed(4406, "Token cannot be empty")
	TokenExpired           = failed(4407, "Token is expired")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden = failed(4030, "Forbidden")

	// Conflict 409
	Conflict          = failed(4090, "Conflict")
	AlreadyMember     = failed(4091, "User is already a member of the project")
	InvitationPending = failed(4092, "A pending invitation already exists")

	InvitationExpired    = failed(4100, "Invitation has expired")
	InvitationNotPending = failed(4220, "Invitation is no longer pending")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	UserNotExist                  = failed(4041, "User does not exist")
	UserAlreadyExist              = failed(4042, "User already exists")
	UserIncorrectPassword         = failed(4043, "User incorrect password")
	UsernameArePasswordIsRequired = failed(4045, "Username and password are required")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
