package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_IDCarriesUserPrefix(t *testing.T) {
	conn := NewConnection("u1", 4)
	assert.True(t, strings.HasPrefix(conn.ID(), "u1_"))
	assert.Equal(t, "u1", conn.UserID())
	assert.Equal(t, "u1", UserIDFromConnectionID(conn.ID()))
}

func TestConnection_IDsAreUnique(t *testing.T) {
	a := NewConnection("u1", 4)
	b := NewConnection("u1", 4)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestConnection_SendAndReceive(t *testing.T) {
	conn := NewConnection("u1", 4)
	require.NoError(t, conn.Send(Event{ID: "e1", Name: "followed", Data: "x"}))

	ev := <-conn.Events()
	assert.Equal(t, "e1", ev.ID)
	assert.Equal(t, "followed", ev.Name)
}

func TestConnection_SendAfterClose(t *testing.T) {
	conn := NewConnection("u1", 4)
	conn.Close()
	err := conn.Send(Event{Name: "followed"})
	assert.ErrorIs(t, err, ErrConnectionClosed)

	select {
	case <-conn.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestConnection_SendFullBuffer(t *testing.T) {
	conn := NewConnection("u1", 1)
	require.NoError(t, conn.Send(Event{Name: "followed"}))
	err := conn.Send(Event{Name: "followed"})
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestConnection_CloseIdempotent(t *testing.T) {
	conn := NewConnection("u1", 1)
	conn.Close()
	conn.Close() // must not panic
}

func TestUserIDFromConnectionID_Malformed(t *testing.T) {
	assert.Equal(t, "", UserIDFromConnectionID("nounderscore"))
	assert.Equal(t, "", UserIDFromConnectionID("_leading"))
}
