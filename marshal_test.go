package konfoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	rec := NewStructure().Add("word", NewDecimal(16))
	require.NoError(t, rec.Initialize(map[string]any{"word": 0x1234}))

	buf, err := Marshal(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12}, buf)

	buf, err = Marshal(rec, Options{ByteOrder: BigEndian})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, buf)
}

func TestUnmarshal(t *testing.T) {
	rec := NewStructure().Add("word", NewDecimal(16))
	word, _ := rec.Field("word")

	require.NoError(t, Unmarshal(rec, []byte{0x34, 0x12}, Options{}))
	assert.EqualValues(t, 0x1234, word.Value())

	t.Run("ZeroPaddingAccepted", func(t *testing.T) {
		require.NoError(t, Unmarshal(rec, []byte{0x34, 0x12, 0x00, 0x00}, Options{}))
	})

	t.Run("TrailingDataRejected", func(t *testing.T) {
		err := Unmarshal(rec, []byte{0x34, 0x12, 0x00, 0x01}, Options{})
		require.ErrorIs(t, err, ErrTrailingData)
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.EqualValues(t, 3, fe.Index.Byte)
	})

	t.Run("ShortDataZeroFills", func(t *testing.T) {
		require.NoError(t, Unmarshal(rec, []byte{0x34}, Options{}))
		assert.EqualValues(t, 0x0034, word.Value())
	})
}

func TestBinaryMarshalerInterfaces(t *testing.T) {
	rec := NewStructure().Add("id", NewByte())
	require.NoError(t, rec.Initialize(map[string]any{"id": 0x7F}))

	buf, err := rec.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F}, buf)

	other := NewStructure().Add("id", NewByte())
	require.NoError(t, other.UnmarshalBinary(buf))
	id, _ := other.Field("id")
	assert.Equal(t, "0x7f", id.Value())

	seq := NewSequence(NewByte())
	require.NoError(t, seq.UnmarshalBinary([]byte{0x02}))
	got, err := seq.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, got)
}
