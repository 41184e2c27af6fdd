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

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidTransition is returned (wrapped) when a transition is not allowed from the current state
var ErrInvalidTransition = errors.New("invalid transition")

// Event 触发状态转移的事件
type Event string

// StateMachine 泛型状态转移规则表，构建后只读共享，对象自身持有当前状态
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	validTransitions map[T][]T
	eventTransitions map[transitionKey[T]]T
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// New 创建状态机
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
	}
}

// On 注册事件转移：from 状态收到 event 后转移到 to
func (sm *StateMachine[T]) On(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	if !slices.Contains(sm.validTransitions[from], to) {
		sm.validTransitions[from] = append(sm.validTransitions[from], to)
	}
	return sm
}

// Next 返回 from 状态收到 event 后的目标状态
func (sm *StateMachine[T]) Next(from T, event Event) (T, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	to, ok := sm.eventTransitions[transitionKey[T]{From: from, Event: event}]
	if !ok {
		return from, fmt.Errorf("%w: no transition for event %v in state %v", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// IsTerminal 没有任何出边的状态为终止状态，未注册的状态同样视为终止
func (sm *StateMachine[T]) IsTerminal(state T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.validTransitions[state]) == 0
}
