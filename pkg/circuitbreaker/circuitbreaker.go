// Package circuitbreaker 熔断器
//
// 三种状态：
//   - CLOSED:    请求正常通过，统计连续失败次数
//   - OPEN:      请求立即返回ErrOpenState，OpenTimeout后进入HALF_OPEN
//   - HALF_OPEN: 放行至多HalfOpenRequests个探测请求，成功则关闭，失败则重新打开
//
// 当前用于保护事件发布：Broker不可用时快速失败，不拖慢HTTP请求。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开时返回
var ErrOpenState = errors.New("circuit breaker is open")

// Options 熔断器配置
type Options struct {
	Name string

	// FailureThreshold 连续失败多少次后打开，默认5
	FailureThreshold uint32

	// OpenTimeout 打开状态持续时间，默认30秒
	OpenTimeout time.Duration

	// HalfOpenRequests 半开状态允许的探测请求数，默认1
	HalfOpenRequests uint32

	// OnStateChange 状态变化回调（持有锁时调用，不要在回调里访问熔断器）
	OnStateChange func(name string, from, to State)
}

// Breaker 熔断器，并发安全
type Breaker struct {
	opts Options
	now  func() time.Time

	mu                  sync.Mutex
	state               State
	generation          uint64
	consecutiveFailures uint32
	inFlight            uint32 // 半开状态已放行的请求数
	openedAt            time.Time
}

// New 创建熔断器
func New(opts Options) *Breaker {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.HalfOpenRequests == 0 {
		opts.HalfOpenRequests = 1
	}
	return &Breaker{opts: opts, now: time.Now}
}

// Execute 在熔断器保护下执行fn
func (b *Breaker) Execute(fn func() error) error {
	generation, err := b.beforeRequest()
	if err != nil {
		return err
	}

	err = fn()
	b.afterRequest(generation, err == nil)
	return err
}

// State 当前状态
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

func (b *Breaker) beforeRequest() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case StateOpen:
		return b.generation, ErrOpenState
	case StateHalfOpen:
		if b.inFlight >= b.opts.HalfOpenRequests {
			return b.generation, ErrOpenState
		}
		b.inFlight++
	}
	return b.generation, nil
}

func (b *Breaker) afterRequest(generation uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.currentState()
	// 请求执行期间状态已经切换，结果不再计入
	if generation != b.generation {
		return
	}

	if success {
		b.consecutiveFailures = 0
		if state == StateHalfOpen {
			b.setState(StateClosed)
		}
		return
	}

	b.consecutiveFailures++
	switch state {
	case StateClosed:
		if b.consecutiveFailures >= b.opts.FailureThreshold {
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.setState(StateOpen)
	}
}

// currentState 打开超时后切换到半开，调用方持有锁
func (b *Breaker) currentState() State {
	if b.state == StateOpen && !b.now().Before(b.openedAt.Add(b.opts.OpenTimeout)) {
		b.setState(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setState(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.generation++
	b.consecutiveFailures = 0
	b.inFlight = 0
	if to == StateOpen {
		b.openedAt = b.now()
	}

	if b.opts.OnStateChange != nil {
		b.opts.OnStateChange(b.opts.Name, from, to)
	}
}
