package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

func newFakeClock(t *testing.T, year int, month time.Month, day, hour, min int) *fakeClock {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return &fakeClock{
		now: time.Date(year, month, day, hour, min, 0, 0, loc),
		loc: loc,
	}
}

func (c *fakeClock) Set(hour, min int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, min, 0, 0, c.loc)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Today() time.Time {
	return CivilDate(c.Now())
}

func (c *fakeClock) StartOfToday() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

func (c *fakeClock) Location() *time.Location {
	return c.loc
}

type fakeSend struct {
	OperatorID int64
	Number     string
	Message    string
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []fakeSend
	err  error
}

func (f *fakeTransport) Send(_ context.Context, operatorID int64, number, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, fakeSend{OperatorID: operatorID, Number: number, Message: message})
	return nil
}

func (f *fakeTransport) Sent() []fakeSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeSend, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTransport) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeNotice struct {
	TelegramID string
	Text       string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []fakeNotice
}

func (f *fakeNotifier) Notify(_ context.Context, telegramID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, fakeNotice{TelegramID: telegramID, Text: text})
	return nil
}

func (f *fakeNotifier) Notices() []fakeNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeNotice, len(f.notices))
	copy(out, f.notices)
	return out
}
