package tftp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindEphemeralUsesDynamicRange(t *testing.T) {
	ep, err := bindEphemeral("127.0.0.1")
	require.NoError(t, err)
	defer ep.close()

	addr, ok := ep.localAddr().(*net.UDPAddr)
	require.True(t, ok)
	assert.GreaterOrEqual(t, addr.Port, ephemeralFrom)
	assert.LessOrEqual(t, addr.Port, ephemeralTo)
}

func TestEndpointSendRecvRoundTrip(t *testing.T) {
	a, err := bindEphemeral("127.0.0.1")
	require.NoError(t, err)
	defer a.close()

	b, err := bindEphemeral("127.0.0.1")
	require.NoError(t, err)
	defer b.close()

	require.NoError(t, a.sendTo([]byte("hello"), b.localAddr()))

	buf := make([]byte, 16)
	n, from, err := b.recvFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
	assert.True(t, tidEqual(from, a.localAddr()))
}

func TestTidEqual(t *testing.T) {
	a := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1234}
	b := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1234}
	c := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 4321}

	assert.True(t, tidEqual(a, b))
	assert.False(t, tidEqual(a, c))
}

func TestTidSameHostIgnoresPort(t *testing.T) {
	a := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 69}
	b := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 52000}
	c := &net.UDPAddr{IP: net.ParseIP("10.0.0.2"), Port: 69}

	assert.True(t, tidSameHost(a, b))
	assert.False(t, tidSameHost(a, c))
}
