package konfoo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PointerTestSuite struct {
	suite.Suite
	prov *BytesProvider
}

// SetupTest rebuilds a 512 byte data source before each test.
func (s *PointerTestSuite) SetupTest() {
	s.prov = NewBytesProvider(make([]byte, 512))
}

func (s *PointerTestSuite) seed(address uint64, b []byte) {
	s.Require().NoError(s.prov.Write(address, b))
}

func (s *PointerTestSuite) TestDeclaration() {
	p := NewPointer(NewByte())
	s.Equal("Pointer32", p.Name())
	s.Equal(KindPointer, p.Kind())
	s.EqualValues(32, p.BitSize())
	s.True(p.IsNull())
	s.Equal(LittleEndian, p.DataByteOrder())

	bytes, bits := p.DataSize()
	s.EqualValues(1, bytes)
	s.EqualValues(0, bits)
}

func (s *PointerTestSuite) TestFetch() {
	data := NewStructure().
		Add("id", NewByte()).
		Add("count", NewDecimal(16))
	p := NewPointer(data)

	s.seed(0x40, []byte{0x11, 0x34, 0x12})
	p.SetUint(0x40)
	s.Require().NoError(p.Fetch(s.prov, Options{}))

	s.Equal([]byte{0x11, 0x34, 0x12}, p.Bytestream())
	id, _ := data.Field("id")
	s.Equal("0x11", id.Value())
	count, _ := data.Field("count")
	s.EqualValues(0x1234, count.Value())
	s.Equal(Index{Address: 0x40, BaseAddress: 0x40}, id.Index())
}

func (s *PointerTestSuite) TestFetchDataByteOrder() {
	data := NewStructure().Add("count", NewDecimal(16))
	p := NewPointer(data)
	p.SetDataByteOrder(BigEndian)

	s.seed(0x40, []byte{0x12, 0x34})
	p.SetUint(0x40)
	s.Require().NoError(p.Fetch(s.prov, Options{}))

	count, _ := data.Field("count")
	s.EqualValues(0x1234, count.Value())
}

func (s *PointerTestSuite) TestNullPointer() {
	data := NewStructure().Add("id", NewByte())
	p := NewPointer(data)

	s.Require().NoError(p.Fetch(s.prov, Options{}))
	s.Nil(p.Bytestream())

	s.T().Run("NullAllowedReadsAddressZero", func(t *testing.T) {
		s.seed(0, []byte{0x7F})
		require.NoError(t, p.Fetch(s.prov, Options{NullAllowed: true}))
		assert.Equal(t, []byte{0x7F}, p.Bytestream())
	})
}

func (s *PointerTestSuite) TestFetchErrors() {
	s.T().Run("NilProvider", func(t *testing.T) {
		p := NewPointer(NewByte())
		p.SetUint(1)
		assert.ErrorIs(t, p.Fetch(nil, Options{}), ErrNilProvider)
	})

	s.T().Run("ProviderRange", func(t *testing.T) {
		p := NewPointer(NewDecimal(32))
		p.SetUint(510)
		assert.ErrorIs(t, p.Fetch(s.prov, Options{}), ErrProviderRange)
	})

	s.T().Run("DataNotByteAligned", func(t *testing.T) {
		p := NewPointer(NewDecimalAligned(4, 1))
		p.SetUint(0x10)
		assert.ErrorIs(t, p.Fetch(s.prov, Options{}), ErrIncomplete)
	})

	s.T().Run("NilDataIsSkipped", func(t *testing.T) {
		p := NewPointer(nil)
		p.SetUint(0x10)
		assert.NoError(t, p.Fetch(s.prov, Options{}))
		assert.Nil(t, p.Bytestream())
	})
}

func (s *PointerTestSuite) TestNestedFetchChains() {
	inner := NewPointer(NewByte())
	data := NewStructure().Add("next", inner)
	outer := NewPointer(data)

	s.seed(0x20, []byte{0x40, 0x00, 0x00, 0x00})
	s.seed(0x40, []byte{0x7F})
	outer.SetUint(0x20)

	s.Require().NoError(outer.Fetch(s.prov, Options{Nested: true}))
	s.EqualValues(0x40, inner.Address())
	s.Equal("0x7f", inner.Data().(Field).Value())

	s.T().Run("WithoutNestedStopsAtOuter", func(t *testing.T) {
		in := NewPointer(NewByte())
		out := NewPointer(NewStructure().Add("next", in))
		out.SetUint(0x20)
		require.NoError(t, out.Fetch(s.prov, Options{}))
		assert.EqualValues(t, 0x40, in.Address())
		assert.Nil(t, in.Bytestream())
	})
}

func (s *PointerTestSuite) TestRelativePointer() {
	p := NewRelativePointer(NewByte())
	s.Equal("RelativePointer32", p.Name())

	// The pointer field itself lives at base address 0x100 and stores the
	// offset 5, so the data is at 0x105.
	_, err := p.Deserialize([]byte{0x05, 0x00, 0x00, 0x00}, Index{}.WithAddress(0x100), Options{})
	s.Require().NoError(err)
	s.EqualValues(0x105, p.Address())

	s.seed(0x105, []byte{0x42})
	s.Require().NoError(p.Fetch(s.prov, Options{}))
	s.Equal("0x42", p.Data().(Field).Value())
}

func (s *PointerTestSuite) TestAutoStringDiscovery() {
	p := NewAutoStringPointer()
	s.Equal("AutoStringPointer32", p.Name())

	content := strings.Repeat("A", 100)
	s.seed(0x04, append([]byte(content), 0))
	p.SetUint(0x04)

	s.Require().NoError(p.Fetch(s.prov, Options{}))
	str := p.Data().(*String)
	s.Equal(content, str.String())
	s.EqualValues(2*autoBlockSize, str.Len())
	s.Len(p.Bytestream(), 2*autoBlockSize)

	s.T().Run("UnterminatedRunsOffProvider", func(t *testing.T) {
		q := NewAutoStringPointer()
		q.SetUint(0x04)
		require.NoError(t, s.prov.Write(0x04, []byte(strings.Repeat("B", 508))))
		assert.ErrorIs(t, q.Fetch(s.prov, Options{}), ErrProviderRange)
	})
}

func (s *PointerTestSuite) TestSerializeRoundTrip() {
	data := NewStructure().Add("id", NewByte())
	p := NewPointer(data)
	p.SetUint(0xDEAD)

	buf, _, err := p.Serialize(nil, Index{}, Options{})
	s.Require().NoError(err)
	s.Equal([]byte{0xAD, 0xDE, 0x00, 0x00}, buf)

	s.T().Run("NestedSerializeFillsBytestream", func(t *testing.T) {
		id, _ := data.Field("id")
		require.NoError(t, id.SetValue(0x55))
		_, _, err := p.Serialize(nil, Index{}, Options{Nested: true})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x55}, p.Bytestream())
	})

	s.T().Run("NestedDeserializeReadsBytestream", func(t *testing.T) {
		id, _ := data.Field("id")
		require.NoError(t, id.SetValue(0))
		_, err := p.Deserialize([]byte{0xAD, 0xDE, 0x00, 0x00}, Index{}, Options{Nested: true})
		require.NoError(t, err)
		assert.Equal(t, "0x55", id.Value())
	})
}

func (s *PointerTestSuite) TestContainerViews() {
	data := NewStructure().Add("id", NewByte())
	p := NewPointer(data)
	p.SetUint(0x40)

	items := p.FieldItems()
	s.Require().Len(items, 2)
	s.Equal("pointer", items[0].Path)
	s.Equal("pointer.data.id", items[1].Path)

	view, ok := p.ViewFields().(map[string]any)
	s.Require().True(ok)
	s.Equal("0x40", view["value"])
	s.Equal(map[string]any{"id": "0x00"}, view["data"])

	s.Require().NoError(p.Initialize(map[string]any{
		"value": 0x80,
		"data":  map[string]any{"id": 3},
	}))
	s.EqualValues(0x80, p.Uint())

	s.ErrorIs(p.Initialize(map[string]any{"bogus": 1}), ErrMemberType)
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(PointerTestSuite))
}
