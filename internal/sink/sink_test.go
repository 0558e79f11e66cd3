package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizbora/signalscan/internal/models"
)

type stubSink struct {
	name      string
	err       error
	delivered []Notification
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(ctx context.Context, n Notification) error {
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, n)
	return nil
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	a := &stubSink{name: "a"}
	b := &stubSink{name: "b"}
	fanout := NewFanout(a, b)

	n := Notification{Text: "$NVDA 950 +5.00% | 3.10x ATR | Z 4.20 | Breakout", Signal: testSignal("NVDA", models.SignalBreakout)}
	failures := fanout.DeliverAll(context.Background(), n)

	assert.Empty(t, failures)
	require.Len(t, a.delivered, 1)
	require.Len(t, b.delivered, 1)
	assert.Equal(t, n.Text, a.delivered[0].Text)
}

func TestFanout_IsolatesFailures(t *testing.T) {
	broken := &stubSink{name: "broken", err: errors.New("boom")}
	healthy := &stubSink{name: "healthy"}
	fanout := NewFanout(broken, healthy)

	n := Notification{Text: "line", Signal: testSignal("NVDA", models.SignalBreakout)}
	failures := fanout.DeliverAll(context.Background(), n)

	require.Len(t, failures, 1)
	assert.Error(t, failures["broken"])
	assert.Len(t, healthy.delivered, 1, "healthy sink must still receive the notification")
}

func TestFanout_Empty(t *testing.T) {
	fanout := NewFanout()
	failures := fanout.DeliverAll(context.Background(), Notification{Text: "line", Signal: testSignal("NVDA", models.SignalNone)})
	assert.Empty(t, failures)
}

func TestValidateNotification(t *testing.T) {
	assert.Error(t, validateNotification(Notification{}))
	assert.Error(t, validateNotification(Notification{Text: "line"}))
	assert.Error(t, validateNotification(Notification{Signal: testSignal("NVDA", models.SignalNone)}))
	assert.NoError(t, validateNotification(Notification{Text: "line", Signal: testSignal("NVDA", models.SignalNone)}))
}
