// Package simulate runs the demo remittance: a timer-driven state machine that performs no real transfer.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is a step of the simulated transfer.
type State string

const (
	StateIdle       State = "idle"
	StateInitiating State = "initiating"
	StateSending    State = "sending"
	StateConverting State = "converting"
	StateReceived   State = "received"
	StateError      State = "error"
)

// Terminal reports whether the state waits for an explicit reset.
func (s State) Terminal() bool {
	return s == StateReceived || s == StateError
}

var (
	ErrBusy           = errors.New("transfer already in progress")
	ErrNotFinished    = errors.New("transfer has not finished")
	ErrInvalidRequest = errors.New("invalid transfer request")
)

// FailureMessage is reported when the conversion step fails.
const FailureMessage = "Transfer failed: the network is congested. Please try again."

// DefaultSuccessRate is the probability that a transfer reaches the received state.
const DefaultSuccessRate = 0.95

// Config holds the step delays and the outcome odds.
type Config struct {
	InitiateDelay time.Duration
	SendDelay     time.Duration
	ConvertDelay  time.Duration
	SuccessRate   float64
	// Fee is deducted in the source currency before conversion.
	Fee decimal.Decimal
}

// DefaultConfig returns the delays used by the demo.
func DefaultConfig() Config {
	return Config{
		InitiateDelay: 1500 * time.Millisecond,
		SendDelay:     2 * time.Second,
		ConvertDelay:  2 * time.Second,
		SuccessRate:   DefaultSuccessRate,
		Fee:           decimal.RequireFromString("0.001"),
	}
}

// Request starts a transfer of Amount converted into Currency at ExchangeRate.
type Request struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
}

// Status is a snapshot of a transfer.
type Status struct {
	State          State            `json:"state"`
	TransactionID  string           `json:"transactionId,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	Fee            decimal.Decimal  `json:"fee"`
	Currency       string           `json:"currency,omitempty"`
	ExchangeRate   decimal.Decimal  `json:"exchangeRate"`
	ReceivedAmount *decimal.Decimal `json:"receivedAmount,omitempty"`
	ErrorMessage   string           `json:"errorMessage,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Option customizes a Transfer.
type Option func(*Transfer)

// WithRandom replaces the source of outcome draws. fn returns values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(t *Transfer) { t.random = fn }
}

// WithSleep replaces the delay between steps.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Transfer) { t.sleep = fn }
}

// WithIDGenerator replaces the synthetic transaction id source.
func WithIDGenerator(fn func() string) Option {
	return func(t *Transfer) { t.newID = fn }
}

// WithOnChange registers a callback invoked after every transition.
func WithOnChange(fn func(Status)) Option {
	return func(t *Transfer) { t.onChange = fn }
}

// WithClock replaces the time source used for UpdatedAt.
func WithClock(fn func() time.Time) Option {
	return func(t *Transfer) { t.now = fn }
}

// Transfer is one simulated remittance session. It is safe for concurrent use.
type Transfer struct {
	cfg      Config
	random   func() float64
	sleep    func(ctx context.Context, d time.Duration) error
	newID    func() string
	onChange func(Status)
	now      func() time.Time

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
}

// New creates an idle Transfer.
func New(cfg Config, opts ...Option) *Transfer {
	t := &Transfer{
		cfg:    cfg,
		random: rand.Float64,
		sleep:  sleepCtx,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.status = Status{State: StateIdle, UpdatedAt: t.now()}
	return t
}

// Status returns the current snapshot.
func (t *Transfer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Run moves the transfer from idle through every step and blocks until it settles.
// A cancelled ctx returns the transfer to idle and yields ctx.Err().
func (t *Transfer) Run(ctx context.Context, req Request) (Status, error) {
	ctx, cancel, err := t.begin(ctx, req)
	if err != nil {
		return t.Status(), err
	}
	defer cancel()
	return t.advance(ctx, req)
}

// Start moves the transfer to initiating and finishes the sequence in the background.
func (t *Transfer) Start(ctx context.Context, req Request) error {
	ctx, cancel, err := t.begin(ctx, req)
	if err != nil {
		return err
	}
	go func() {
		defer cancel()
		if _, err := t.advance(ctx, req); err != nil {
			slog.Info("simulated transfer interrupted", "error", err)
		}
	}()
	return nil
}

// Cancel interrupts a running sequence. It is a no-op when nothing is running.
func (t *Transfer) Cancel() {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Reset returns a settled transfer to idle and clears its results.
func (t *Transfer) Reset() error {
	t.mu.Lock()
	if !t.status.State.Terminal() {
		state := t.status.State
		t.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrNotFinished, state)
	}
	t.status = Status{State: StateIdle, UpdatedAt: t.now()}
	snapshot := t.status
	t.mu.Unlock()

	t.notify(snapshot)
	return nil
}

func (t *Transfer) begin(ctx context.Context, req Request) (context.Context, context.CancelFunc, error) {
	if err := t.validate(req); err != nil {
		return nil, nil, err
	}

	t.mu.Lock()
	if t.status.State != StateIdle {
		state := t.status.State
		t.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: state is %s", ErrBusy, state)
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.status = Status{
		State:        StateInitiating,
		Amount:       req.Amount,
		Fee:          t.cfg.Fee,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		UpdatedAt:    t.now(),
	}
	snapshot := t.status
	t.mu.Unlock()

	t.notify(snapshot)
	return ctx, cancel, nil
}

func (t *Transfer) validate(req Request) error {
	if !req.Amount.GreaterThan(t.cfg.Fee) {
		return fmt.Errorf("%w: amount must exceed the %s fee", ErrInvalidRequest, t.cfg.Fee)
	}
	if !req.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", ErrInvalidRequest)
	}
	return nil
}

func (t *Transfer) advance(ctx context.Context, req Request) (Status, error) {
	if err := t.sleep(ctx, t.cfg.InitiateDelay); err != nil {
		return t.abort(err)
	}
	id := t.newID()
	t.transition(func(s *Status) {
		s.State = StateSending
		s.TransactionID = id
	})

	if err := t.sleep(ctx, t.cfg.SendDelay); err != nil {
		return t.abort(err)
	}
	t.transition(func(s *Status) { s.State = StateConverting })

	if err := t.sleep(ctx, t.cfg.ConvertDelay); err != nil {
		return t.abort(err)
	}

	if t.random() >= t.cfg.SuccessRate {
		t.transition(func(s *Status) {
			s.State = StateError
			s.ErrorMessage = FailureMessage
		})
		return t.Status(), nil
	}

	received := req.Amount.Sub(t.cfg.Fee).Mul(req.ExchangeRate).Round(6)
	t.transition(func(s *Status) {
		s.State = StateReceived
		s.ReceivedAmount = &received
	})
	return t.Status(), nil
}

func (t *Transfer) abort(err error) (Status, error) {
	t.mu.Lock()
	t.status = Status{State: StateIdle, UpdatedAt: t.now()}
	snapshot := t.status
	t.mu.Unlock()

	t.notify(snapshot)
	return snapshot, err
}

func (t *Transfer) transition(apply func(*Status)) {
	t.mu.Lock()
	apply(&t.status)
	t.status.UpdatedAt = t.now()
	snapshot := t.status
	t.mu.Unlock()

	t.notify(snapshot)
}

func (t *Transfer) notify(s Status) {
	if t.onChange != nil {
		t.onChange(s)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
