package refetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOkIsSuccess(t *testing.T) {
	res := Ok(42)

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 42, res.Value())
	assert.Nil(t, res.Err())
}

func TestFailIsFailure(t *testing.T) {
	err := &Error{Kind: KindRequestFailed, Message: "boom"}
	res := Fail[int](err)

	assert.False(t, res.IsSuccess())
	assert.Zero(t, res.Value())
	assert.Same(t, err, res.Err())
}

func TestFailNilErrorCoerced(t *testing.T) {
	res := Fail[int](nil)

	require.False(t, res.IsSuccess())
	assert.Equal(t, KindUnexpected, res.Err().Kind)
}

func TestUnpack(t *testing.T) {
	value, err := Ok("hello").Unpack()
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	fetchErr := &Error{Kind: KindTimeout, Message: "deadline"}
	_, err = Fail[string](fetchErr).Unpack()
	require.Error(t, err)
	assert.Same(t, fetchErr, err)
}

func TestMapSuccess(t *testing.T) {
	res := Map(Ok(5), func(x int) int { return x * 2 })

	require.True(t, res.IsSuccess())
	assert.Equal(t, 10, res.Value())
}

func TestMapChangesType(t *testing.T) {
	res := Map(Ok(5), func(x int) string {
		if x > 3 {
			return "big"
		}
		return "small"
	})

	require.True(t, res.IsSuccess())
	assert.Equal(t, "big", res.Value())
}

func TestMapFailurePreservesErrorIdentity(t *testing.T) {
	err := &Error{Kind: KindInvalidPayload, Message: "bad body"}
	invoked := false

	res := Map(Fail[int](err), func(x int) int {
		invoked = true
		return x * 2
	})

	assert.False(t, invoked, "Map must not invoke f on a Failure")
	require.False(t, res.IsSuccess())
	assert.Same(t, err, res.Err())
}

func TestFlatMapSuccess(t *testing.T) {
	res := FlatMap(Ok(5), func(x int) Result[string] {
		return Ok("value=5")
	})

	require.True(t, res.IsSuccess())
	assert.Equal(t, "value=5", res.Value())
}

func TestFlatMapWidensToFailure(t *testing.T) {
	inner := &Error{Kind: KindValidationFailed, Message: "rejected"}

	res := FlatMap(Ok(5), func(x int) Result[int] {
		return Fail[int](inner)
	})

	require.False(t, res.IsSuccess())
	assert.Same(t, inner, res.Err())
}

func TestFlatMapShortCircuits(t *testing.T) {
	first := &Error{Kind: KindRequestFailed, Message: "e1"}
	invoked := false

	res := FlatMap(Fail[int](first), func(x int) Result[int] {
		invoked = true
		return Ok(x)
	})

	assert.False(t, invoked, "FlatMap must not invoke f on a Failure")
	require.False(t, res.IsSuccess())
	assert.Same(t, first, res.Err())
}

func TestChainedTransformations(t *testing.T) {
	type payload struct {
		Items []int
	}

	res := FlatMap(
		Map(Ok(payload{Items: []int{1, 2, 3}}), func(p payload) int { return len(p.Items) }),
		func(n int) Result[bool] { return Ok(n > 0) },
	)

	require.True(t, res.IsSuccess())
	assert.True(t, res.Value())
}
