package hidkbd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDevice(steps []readStep) *fakeDevice {
	return &fakeDevice{
		name:  "kbd",
		intfs: []InterfaceDesc{bootKeyboardInterface(0)},
		claim: &fakeClaim{steps: steps},
	}
}

func startSession(t *testing.T, dev *fakeDevice, config Config) *Session {
	t.Helper()
	intf := dev.intfs[0]
	sess, err := NewSession(dev, intf, intf.Endpoints[0], config)
	require.NoError(t, err)
	return sess
}

var reportKeyA = []byte{0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}

func Test_SessionClaimFailure(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice(nil)
	dev.claimErr = errors.New("interface busy")

	intf := dev.intfs[0]
	_, err := NewSession(dev, intf, intf.Endpoints[0], Config{})
	assert.ErrorIs(err, ErrorSessionStart)
	assert.Equal(1, dev.closes)
}

func Test_SessionDetachFailureIsNonFatal(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice(nil)
	dev.detachErr = errors.New("not permitted")

	sess := startSession(t, dev, Config{})
	assert.Equal(StateClaimed, sess.State())
	assert.Equal(1, dev.detaches)

	assert.NoError(sess.Close())
	assert.Equal(StateClosed, sess.State())
}

func Test_SessionEmitsDecodedEvents(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice([]readStep{
		{data: reportKeyA},
		{data: []byte{0x02, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{err: ErrorDeviceGone},
	})

	sess := startSession(t, dev, Config{})

	var events []KeyEvent
	err := sess.Run(context.Background(), func(ev KeyEvent) {
		events = append(events, ev)
	})
	assert.ErrorIs(err, ErrorDeviceGone)

	assert.Len(events, 2)
	assert.Equal([]string{"A"}, events[0].Keys)
	assert.Equal([]string{"LeftShift"}, events[1].Modifiers)
}

func Test_SessionFatalErrorReleasesOnce(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice([]readStep{
		{data: reportKeyA},
		{err: ErrorDeviceGone},
	})

	sess := startSession(t, dev, Config{})
	err := sess.Run(context.Background(), func(KeyEvent) {})
	assert.ErrorIs(err, ErrorDeviceGone)
	assert.Equal(StateClosed, sess.State())

	assert.Equal(1, dev.claim.releases)
	assert.Equal(1, dev.closes)

	// Close after Run must not release again.
	assert.NoError(sess.Close())
	assert.Equal(1, dev.claim.releases)
	assert.Equal(1, dev.closes)
}

func Test_SessionCancellation(t *testing.T) {
	assert := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	dev := newTestDevice([]readStep{
		{err: ErrorReadTimeout},
		{err: ErrorReadTimeout, do: cancel},
	})

	sess := startSession(t, dev, Config{})
	err := sess.Run(ctx, func(KeyEvent) {
		t.Fatal("no event expected")
	})
	assert.NoError(err)
	assert.Equal(StateClosed, sess.State())
	assert.Equal(1, dev.claim.releases)
	assert.Equal(1, dev.closes)
}

func Test_SessionTransientErrorRecovery(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice([]readStep{
		{err: ErrorTransientRead},
		{data: reportKeyA},
		{err: ErrorTransientRead},
		{err: ErrorDeviceGone},
	})

	sess := startSession(t, dev, Config{})

	var events []KeyEvent
	err := sess.Run(context.Background(), func(ev KeyEvent) {
		events = append(events, ev)
	})
	assert.ErrorIs(err, ErrorDeviceGone)
	assert.Len(events, 1)
	assert.Equal([]string{"A"}, events[0].Keys)
}

func Test_SessionTransientErrorCap(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice([]readStep{
		{err: ErrorTransientRead},
		{err: ErrorTransientRead},
		{err: ErrorTransientRead},
	})

	sess := startSession(t, dev, Config{MaxTransientErrors: 3})
	err := sess.Run(context.Background(), func(KeyEvent) {
		t.Fatal("no event expected")
	})
	assert.ErrorIs(err, ErrorDeviceGone)
	assert.Empty(dev.claim.steps)
	assert.Equal(1, dev.claim.releases)
}

func Test_SessionTransientCounterResets(t *testing.T) {
	assert := require.New(t)

	// A good read between transient errors restarts the budget, so
	// three non-consecutive errors stay below a cap of three.
	ctx, cancel := context.WithCancel(context.Background())
	dev := newTestDevice([]readStep{
		{err: ErrorTransientRead},
		{err: ErrorTransientRead},
		{data: reportKeyA},
		{err: ErrorTransientRead},
		{err: ErrorReadTimeout, do: cancel},
	})

	sess := startSession(t, dev, Config{MaxTransientErrors: 3})

	var events []KeyEvent
	err := sess.Run(ctx, func(ev KeyEvent) {
		events = append(events, ev)
	})
	assert.NoError(err)
	assert.Len(events, 1)
}

func Test_SessionMalformedReportSkipped(t *testing.T) {
	assert := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	dev := newTestDevice([]readStep{
		{data: []byte{0x00, 0x00, 0x04}},
		{data: reportKeyA},
		{err: ErrorReadTimeout, do: cancel},
	})

	sess := startSession(t, dev, Config{})

	var events []KeyEvent
	err := sess.Run(ctx, func(ev KeyEvent) {
		events = append(events, ev)
	})
	assert.NoError(err)
	assert.Len(events, 1)
	assert.Equal([]string{"A"}, events[0].Keys)
}

func Test_SessionRunAfterClose(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice(nil)
	sess := startSession(t, dev, Config{})
	assert.NoError(sess.Close())

	err := sess.Run(context.Background(), func(KeyEvent) {})
	assert.ErrorIs(err, ErrorSessionClosed)
}

func Test_SessionStateDuringPolling(t *testing.T) {
	assert := require.New(t)

	var observed State
	dev := newTestDevice(nil)
	sess := startSession(t, dev, Config{})
	dev.claim.steps = []readStep{
		{err: ErrorDeviceGone, do: func() { observed = sess.State() }},
	}

	err := sess.Run(context.Background(), func(KeyEvent) {})
	assert.ErrorIs(err, ErrorDeviceGone)
	assert.Equal(StatePolling, observed)
	assert.Equal(StateClosed, sess.State())
}

func Test_SessionConfigDefaults(t *testing.T) {
	assert := require.New(t)

	dev := newTestDevice(nil)
	sess := startSession(t, dev, Config{})
	assert.Equal(DefaultReadTimeout, sess.config.ReadTimeout)
	assert.Equal(DefaultMaxTransientErrors, sess.config.MaxTransientErrors)
	assert.NoError(sess.Close())

	dev = newTestDevice(nil)
	sess = startSession(t, dev, Config{ReadTimeout: time.Second, MaxTransientErrors: 2})
	assert.Equal(time.Second, sess.config.ReadTimeout)
	assert.Equal(2, sess.config.MaxTransientErrors)
	assert.NoError(sess.Close())
}

func Test_StateString(t *testing.T) {
	assert := require.New(t)

	assert.Equal("Searching", StateSearching.String())
	assert.Equal("Claimed", StateClaimed.String())
	assert.Equal("Polling", StatePolling.String())
	assert.Equal("Closed", StateClosed.String())
	assert.Equal("Invalid", State(42).String())
}
