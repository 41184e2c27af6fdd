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

package statemachine

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationRejected  InvitationStatus = "REJECTED"
	InvitationExpired   InvitationStatus = "EXPIRED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

const (
	EventAccept Event = "accept"
	EventReject Event = "reject"
	EventCancel Event = "cancel"
	EventExpire Event = "expire"
)

// invitationRules 邀请状态规则表，只读共享
var invitationRules = newInvitationRules()

// newInvitationRules PENDING 是唯一的非终止状态，四个终止状态没有出边
func newInvitationRules() *StateMachine[InvitationStatus] {
	return New[InvitationStatus]().
		On(InvitationPending, EventAccept, InvitationAccepted).
		On(InvitationPending, EventReject, InvitationRejected).
		On(InvitationPending, EventCancel, InvitationCancelled).
		On(InvitationPending, EventExpire, InvitationExpired)
}

// IsTerminal 判断是否为终止状态，未知状态也是终止状态
func (s InvitationStatus) IsTerminal() bool {
	return invitationRules.IsTerminal(s)
}

// IsValid 判断是否为已知状态
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected, InvitationExpired, InvitationCancelled:
		return true
	}
	return false
}

// Fire 返回当前状态收到 event 后的目标状态，终止状态一律返回 ErrInvalidTransition
func (s InvitationStatus) Fire(event Event) (InvitationStatus, error) {
	return invitationRules.Next(s, event)
}
