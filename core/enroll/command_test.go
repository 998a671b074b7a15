package enroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremqtt "github.com/kilianp07/smartreg/core/mqtt"
)

type fakeClient struct {
	sendErr error
	ack     bool
	ackErr  error
	timeout time.Duration
}

func (f *fakeClient) SendEnroll(id string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "cmd-" + id, nil
}

func (f *fakeClient) WaitForAck(_ string, timeout time.Duration) (bool, error) {
	f.timeout = timeout
	return f.ack, f.ackErr
}

func TestCommandActuator(t *testing.T) {
	c := &fakeClient{ack: true}
	act := CommandActuator{Client: c, AckTimeout: 2 * time.Second}
	ok, err := act.Enroll(context.Background(), "S1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, c.timeout)

	c = &fakeClient{ackErr: coremqtt.ErrAckTimeout}
	_, err = CommandActuator{Client: c}.Enroll(context.Background(), "S1")
	assert.ErrorIs(t, err, coremqtt.ErrAckTimeout)

	c = &fakeClient{sendErr: errors.New("not connected")}
	_, err = CommandActuator{Client: c}.Enroll(context.Background(), "S1")
	assert.ErrorContains(t, err, "not connected")
}
