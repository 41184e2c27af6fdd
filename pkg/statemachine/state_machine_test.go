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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 定义测试用状态
type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCanceled  OrderStatus = "CANCELED"
)

func newOrderRules() *StateMachine[OrderStatus] {
	return New[OrderStatus]().
		On(OrderCreated, "pay", OrderPaid).
		On(OrderCreated, "cancel", OrderCanceled).
		On(OrderPaid, "ship", OrderShipped).
		On(OrderPaid, "cancel", OrderCanceled).
		On(OrderShipped, "deliver", OrderDelivered)
}

func TestStateMachine_Next(t *testing.T) {
	sm := newOrderRules()
	tests := []struct {
		from    OrderStatus
		event   Event
		want    OrderStatus
		wantErr bool
	}{
		{OrderCreated, "pay", OrderPaid, false},
		{OrderPaid, "ship", OrderShipped, false},
		{OrderPaid, "cancel", OrderCanceled, false},
		{OrderCreated, "ship", OrderCreated, true},
		{OrderDelivered, "cancel", OrderDelivered, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, err := sm.Next(tt.from, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateMachine_Terminal(t *testing.T) {
	sm := newOrderRules()
	assert.False(t, sm.IsTerminal(OrderCreated))
	assert.False(t, sm.IsTerminal(OrderShipped))
	assert.True(t, sm.IsTerminal(OrderDelivered))
	assert.True(t, sm.IsTerminal(OrderCanceled))
	assert.True(t, sm.IsTerminal("UNKNOWN"))
}

func TestStateMachine_OnIsIdempotent(t *testing.T) {
	sm := New[OrderStatus]().On(OrderCreated, "pay", OrderPaid).On(OrderCreated, "pay", OrderPaid)
	assert.Len(t, sm.validTransitions[OrderCreated], 1)
}

func TestStateMachine_ConcurrentReads(t *testing.T) {
	sm := newOrderRules()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			to, err := sm.Next(OrderCreated, "pay")
			assert.NoError(t, err)
			assert.Equal(t, OrderPaid, to)
			assert.False(t, sm.IsTerminal(OrderCreated))
		}()
	}
	wg.Wait()
}
