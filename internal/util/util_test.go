package util_test

import (
	"encoding/base64"
	"testing"

	"github.com/Keeper-of-the-Keys/tsig/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBase64(t *testing.T) {
	t.Parallel()

	b, err := util.FromBase64([]byte("DRwIYZn6exnhof/mcV/aEQ=="))
	require.NoError(t, err)
	assert.Len(t, b, 16)

	_, err = util.FromBase64([]byte("garbage"))
	assert.Equal(t, base64.CorruptInputError(4), err)
}

func TestPackUint16(t *testing.T) {
	t.Parallel()

	msg := make([]byte, 2)

	off, err := util.PackUint16(0xcafe, msg, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, off)
	assert.Equal(t, []byte{0xca, 0xfe}, msg)

	i, off, err := util.UnpackUint16(msg, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, off)
	assert.Equal(t, uint16(0xcafe), i)

	_, err = util.PackUint16(0xcafe, msg, 1)
	assert.EqualError(t, err, "tsig: overflow packing uint16")

	_, _, err = util.UnpackUint16(msg, 1)
	assert.EqualError(t, err, "tsig: overflow unpacking uint16")
}

func TestPackUint32(t *testing.T) {
	t.Parallel()

	msg := make([]byte, 4)

	off, err := util.PackUint32(0xdeadbeef, msg, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, off)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, msg)

	_, err = util.PackUint32(0xdeadbeef, msg, 1)
	assert.EqualError(t, err, "tsig: overflow packing uint32")
}

func TestPackUint48(t *testing.T) {
	t.Parallel()

	msg := make([]byte, 6)

	off, err := util.PackUint48(0x0000cafebabef00d, msg, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, off)
	assert.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe, 0xf0, 0x0d}, msg)

	_, err = util.PackUint48(0, msg, 1)
	assert.EqualError(t, err, "tsig: overflow packing uint64 as uint48")
}

func TestPackStringHex(t *testing.T) {
	t.Parallel()

	msg := make([]byte, 2)

	off, err := util.PackStringHex("beef", msg, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, off)
	assert.Equal(t, []byte{0xbe, 0xef}, msg)

	_, err = util.PackStringHex("garbage", msg, 0)
	assert.Error(t, err)

	_, err = util.PackStringHex("beef", msg, 1)
	assert.EqualError(t, err, "tsig: overflow packing hex")
}
