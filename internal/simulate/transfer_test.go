package simulate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
}

func (r *recorder) get() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func instant(context.Context, time.Duration) error { return nil }

func newTestTransfer(draw float64, rec *recorder, opts ...Option) *Transfer {
	base := []Option{
		WithSleep(instant),
		WithRandom(func() float64 { return draw }),
		WithIDGenerator(func() string { return "SIM-TX-1" }),
		WithOnChange(rec.record),
	}
	return New(DefaultConfig(), append(base, opts...)...)
}

func testRequest() Request {
	return Request{
		Amount:       decimal.NewFromInt(200),
		Currency:     "PKR",
		ExchangeRate: decimal.RequireFromString("278.5"),
	}
}

func assertStates(t *testing.T, got, want []State) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("states = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("states = %v, want %v", got, want)
		}
	}
}

func TestRunSuccess(t *testing.T) {
	rec := &recorder{}
	tr := newTestTransfer(0.10, rec)

	status, err := tr.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertStates(t, rec.get(), []State{StateInitiating, StateSending, StateConverting, StateReceived})

	if status.State != StateReceived {
		t.Fatalf("state = %s, want received", status.State)
	}
	if status.TransactionID != "SIM-TX-1" {
		t.Errorf("TransactionID = %q", status.TransactionID)
	}
	// (200 - 0.001) * 278.5 = 55699.7215
	want := decimal.RequireFromString("55699.7215")
	if status.ReceivedAmount == nil || !status.ReceivedAmount.Equal(want) {
		t.Errorf("ReceivedAmount = %v, want %s", status.ReceivedAmount, want)
	}
	if status.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", status.ErrorMessage)
	}
}

func TestRunFailure(t *testing.T) {
	rec := &recorder{}
	tr := newTestTransfer(0.97, rec)

	status, err := tr.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertStates(t, rec.get(), []State{StateInitiating, StateSending, StateConverting, StateError})

	if status.ErrorMessage != FailureMessage {
		t.Errorf("ErrorMessage = %q", status.ErrorMessage)
	}
	if status.ReceivedAmount != nil {
		t.Errorf("ReceivedAmount = %v, want nil", status.ReceivedAmount)
	}
}

func TestSuccessRateBoundary(t *testing.T) {
	// A draw equal to the success rate fails.
	tr := newTestTransfer(DefaultSuccessRate, &recorder{})
	status, _ := tr.Run(context.Background(), testRequest())
	if status.State != StateError {
		t.Errorf("state = %s, want error", status.State)
	}
}

func TestRunUsesConfiguredDelays(t *testing.T) {
	var mu sync.Mutex
	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return nil
	}

	cfg := Config{
		InitiateDelay: time.Second,
		SendDelay:     2 * time.Second,
		ConvertDelay:  3 * time.Second,
		SuccessRate:   1,
		Fee:           decimal.Zero,
	}
	tr := New(cfg, WithSleep(sleep), WithRandom(func() float64 { return 0 }))
	if _, err := tr.Run(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestResetClearsFields(t *testing.T) {
	for _, draw := range []float64{0.1, 0.99} {
		rec := &recorder{}
		tr := newTestTransfer(draw, rec)
		if _, err := tr.Run(context.Background(), testRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := tr.Reset(); err != nil {
			t.Fatalf("Reset: %v", err)
		}

		s := tr.Status()
		if s.State != StateIdle {
			t.Errorf("state = %s, want idle", s.State)
		}
		if s.TransactionID != "" || s.ReceivedAmount != nil || s.ErrorMessage != "" {
			t.Errorf("fields not cleared: %+v", s)
		}
		states := rec.get()
		if states[len(states)-1] != StateIdle {
			t.Errorf("last notified state = %s, want idle", states[len(states)-1])
		}
	}
}

func TestResetBeforeFinishFails(t *testing.T) {
	tr := newTestTransfer(0.1, &recorder{})
	if err := tr.Reset(); !errors.Is(err, ErrNotFinished) {
		t.Errorf("Reset from idle err = %v, want ErrNotFinished", err)
	}
}

func TestStartWhileRunningIsBusy(t *testing.T) {
	release := make(chan struct{})
	blocking := func(ctx context.Context, _ time.Duration) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	rec := &recorder{}
	tr := newTestTransfer(0.1, rec, WithSleep(blocking))

	if err := tr.Start(context.Background(), testRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tr.Start(context.Background(), testRequest()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}
	if err := tr.Reset(); !errors.Is(err, ErrNotFinished) {
		t.Errorf("Reset while running err = %v, want ErrNotFinished", err)
	}

	close(release)
	waitForState(t, tr, StateReceived)
}

func TestCancelReturnsToIdle(t *testing.T) {
	entered := make(chan struct{}, 3)
	blocking := func(ctx context.Context, _ time.Duration) error {
		entered <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}
	rec := &recorder{}
	tr := newTestTransfer(0.1, rec, WithSleep(blocking))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := tr.Run(ctx, testRequest())
		done <- err
	}()

	<-entered
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	s := tr.Status()
	if s.State != StateIdle || s.TransactionID != "" {
		t.Errorf("status after cancel = %+v, want cleared idle", s)
	}
	assertStates(t, rec.get(), []State{StateInitiating, StateIdle})

	if err := tr.Start(context.Background(), testRequest()); err != nil {
		t.Errorf("Start after cancel: %v", err)
	}
	tr.Cancel()
}

func TestCancelMethod(t *testing.T) {
	entered := make(chan struct{}, 3)
	blocking := func(ctx context.Context, _ time.Duration) error {
		entered <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}
	tr := newTestTransfer(0.1, &recorder{}, WithSleep(blocking))

	if err := tr.Start(context.Background(), testRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-entered
	tr.Cancel()
	waitForState(t, tr, StateIdle)
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"zero amount", Request{Amount: decimal.Zero, ExchangeRate: decimal.NewFromInt(1)}},
		{"amount equal to fee", Request{Amount: decimal.RequireFromString("0.001"), ExchangeRate: decimal.NewFromInt(1)}},
		{"zero rate", Request{Amount: decimal.NewFromInt(10), ExchangeRate: decimal.Zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			tr := newTestTransfer(0.1, rec)
			_, err := tr.Run(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
			if len(rec.get()) != 0 {
				t.Errorf("invalid request must not transition, got %v", rec.get())
			}
		})
	}
}

func waitForState(t *testing.T, tr *Transfer, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tr.Status().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", tr.Status().State, want)
}
