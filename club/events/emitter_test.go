package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnewart/go-clubmember/club"
)

func TestMultiEmitterFansOut(t *testing.T) {
	ctx := context.Background()
	first, second := &Recorder{}, &Recorder{}
	emitter := MultiEmitter{first, LogEmitter{}, second}

	event := club.NewEvent(club.MemberAdded, "alice")
	emitter.Emit(ctx, event)

	require.Len(t, first.Events(), 1)
	require.Len(t, second.Events(), 1)
	assert.Equal(t, event, first.Events()[0])
	assert.Equal(t, event, second.Events()[0])
}

func TestRecorderReset(t *testing.T) {
	r := &Recorder{}
	r.Emit(context.Background(), club.NewEvent(club.MemberRemoved, "bob"))
	r.Reset()
	assert.Empty(t, r.Events())
}

func TestChannelForClub(t *testing.T) {
	assert.Equal(t, "club:default:events", ChannelForClub("default"))
}
