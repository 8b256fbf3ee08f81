package input

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSender records deliveries and fails queries listed in failTitles.
type fakeSender struct {
	calls      []windowQuery
	keys       []Key
	failTitles map[string]bool
	failAll    bool
}

func (f *fakeSender) deliver(q windowQuery, key Key) error {
	f.calls = append(f.calls, q)
	f.keys = append(f.keys, key)
	if f.failAll || f.failTitles[q.title] {
		return errors.New("window not found")
	}
	return nil
}

func testOptions() Options {
	return Options{
		MinInterval: time.Millisecond,
		TitleHint:   "LikuBuddy",
		ProcessName: "likubuddy",
	}
}

func TestSendPrefersExactTarget(t *testing.T) {
	fake := &fakeSender{}
	in := newWith(testOptions(), fake)
	in.SetTargetID(TargetToken(4321))

	require.True(t, in.Send(KeyPrimary))
	require.Len(t, fake.calls, 1)
	require.Equal(t, windowQuery{title: "LikuBuddy [pid:4321]", exact: true}, fake.calls[0])
	require.Equal(t, KeyPrimary, fake.keys[0])
}

func TestSendFallsBackInOrder(t *testing.T) {
	fake := &fakeSender{failTitles: map[string]bool{
		TargetToken(4321): true,
		"LikuBuddy":       true,
	}}
	in := newWith(testOptions(), fake)
	in.SetTargetID(TargetToken(4321))

	require.True(t, in.Send(KeyConfirm))
	require.Len(t, fake.calls, 3)
	require.True(t, fake.calls[0].exact)
	require.Equal(t, "LikuBuddy", fake.calls[1].title)
	require.Equal(t, "likubuddy", fake.calls[2].title)
}

func TestSendWithoutTargetSkipsExactTier(t *testing.T) {
	fake := &fakeSender{}
	in := newWith(testOptions(), fake)

	require.True(t, in.Send(KeyUp))
	require.Len(t, fake.calls, 1)
	require.False(t, fake.calls[0].exact)
	require.Equal(t, "LikuBuddy", fake.calls[0].title)
}

func TestSendSwallowsFailure(t *testing.T) {
	fake := &fakeSender{failAll: true}
	in := newWith(testOptions(), fake)
	in.SetTargetID(TargetToken(1))

	require.False(t, in.Send(KeyPrimary))
	require.Len(t, fake.calls, 3, "all tiers should have been attempted")
}

func TestSendRateLimit(t *testing.T) {
	const n = 5
	const minInterval = 20 * time.Millisecond

	opts := testOptions()
	opts.MinInterval = minInterval
	in := newWith(opts, &fakeSender{})

	start := time.Now()
	for i := 0; i < n; i++ {
		in.Send(KeyPrimary)
	}
	elapsed := time.Since(start)

	if floor := (n - 1) * minInterval; elapsed < floor {
		t.Fatalf("%d sends completed in %v, rate limit requires at least %v", n, elapsed, floor)
	}
}

func TestCharKeys(t *testing.T) {
	require.Equal(t, Key("5"), Char('5'))
	require.False(t, Char('r').named())
	require.True(t, KeyPrimary.named())
}

func TestKeymapsCoverNamedKeys(t *testing.T) {
	named := []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyConfirm, KeyCancel, KeyPrimary}
	for _, k := range named {
		if _, ok := xdotoolKeys[k]; !ok {
			t.Errorf("xdotool keymap missing %q", k)
		}
		if _, ok := osascriptKeyCodes[k]; !ok {
			t.Errorf("osascript keymap missing %q", k)
		}
		if _, ok := sendKeysNames[k]; !ok {
			t.Errorf("SendKeys keymap missing %q", k)
		}
	}
}
