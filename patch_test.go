package konfoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PatchTestSuite struct {
	suite.Suite
	prov *BytesProvider
	data *Structure
	p    *Pointer
}

// SetupTest builds a register block at address 0x100: a byte, a 16 bit word
// and a byte-packed pair of nibbles, indexed and ready to patch.
func (s *PatchTestSuite) SetupTest() {
	s.prov = NewBytesProvider(make([]byte, 0x200))
	s.data = NewStructure().
		Add("id", NewByte()).
		Add("word", NewDecimal(16)).
		Add("lo", NewDecimalAligned(4, 1)).
		Add("hi", NewDecimalAligned(4, 1))
	s.p = NewPointer(s.data)
	s.p.SetUint(0x100)
	_, err := s.p.IndexData(Options{})
	s.Require().NoError(err)
}

func (s *PatchTestSuite) field(name string) Field {
	f, ok := s.data.Field(name)
	s.Require().True(ok)
	return f
}

func (s *PatchTestSuite) TestByteAlignedFieldPatch() {
	word := s.field("word")
	s.Require().NoError(word.SetValue(0x1234))

	patch, err := s.p.Patch(word, LittleEndian)
	s.Require().NoError(err)
	s.Equal([]byte{0x34, 0x12}, patch.Buffer)
	s.EqualValues(0x101, patch.Address)
	s.EqualValues(16, patch.BitSize)
	s.EqualValues(0, patch.BitOffset)
	s.False(patch.Inject)
}

func (s *PatchTestSuite) TestBigEndianFieldPatch() {
	word := s.field("word")
	s.Require().NoError(word.SetValue(0x1234))

	patch, err := s.p.Patch(word, BigEndian)
	s.Require().NoError(err)
	s.Equal([]byte{0x12, 0x34}, patch.Buffer)
	s.EqualValues(0x101, patch.Address)
	s.False(patch.Inject)
}

func (s *PatchTestSuite) TestSubByteInjectionPatch() {
	hi := s.field("hi")
	s.Require().NoError(hi.SetValue(0xA))

	patch, err := s.p.Patch(hi, LittleEndian)
	s.Require().NoError(err)
	s.Require().NotNil(patch)
	s.Len(patch.Buffer, 1)
	s.EqualValues(0x103, patch.Address)
	s.EqualValues(4, patch.BitSize)
	s.EqualValues(4, patch.BitOffset)
	s.True(patch.Inject)
}

func (s *PatchTestSuite) TestContainerPatch() {
	s.Require().NoError(s.data.Initialize(map[string]any{
		"id": 0x01, "word": 0x1234, "lo": 0x1, "hi": 0x2,
	}))

	patch, err := s.p.Patch(s.data, LittleEndian)
	s.Require().NoError(err)
	s.Equal([]byte{0x01, 0x34, 0x12, 0x21}, patch.Buffer)
	s.EqualValues(0x100, patch.Address)
	s.EqualValues(32, patch.BitSize)
	s.False(patch.Inject)

	s.T().Run("LeftoverBitsRejected", func(t *testing.T) {
		odd := NewStructure().Add("n", NewDecimalAligned(4, 1))
		q := NewPointer(odd)
		_, err := q.IndexData(Options{})
		// Indexing a lone nibble leaves its group open.
		assert.NoError(t, err)
		_, err = q.Patch(odd, LittleEndian)
		assert.ErrorIs(t, err, ErrIncomplete)
	})

	s.T().Run("EmptyContainerYieldsNoPatch", func(t *testing.T) {
		q := NewPointer(NewStructure())
		patch, err := q.Patch(NewStructure(), LittleEndian)
		assert.NoError(t, err)
		assert.Nil(t, patch)
	})
}

func (s *PatchTestSuite) TestPatchLeavesLocationsIntact() {
	rel := NewRelativePointer(NewByte())
	data := NewStructure().
		Add("word", NewDecimal(16)).
		Add("rel", rel)
	p := NewPointer(data)
	p.SetUint(0x100)
	_, err := p.IndexData(Options{})
	s.Require().NoError(err)

	rel.SetUint(0x10)
	s.Require().EqualValues(0x110, rel.Address())
	before := rel.Index()

	patch, err := p.Patch(rel, LittleEndian)
	s.Require().NoError(err)
	s.Equal([]byte{0x10, 0x00, 0x00, 0x00}, patch.Buffer)
	s.EqualValues(0x102, patch.Address)

	// Computing a patch must not disturb the item's assigned location: a
	// relative pointer that loses its base address would fetch elsewhere.
	s.Equal(before, rel.Index())
	s.EqualValues(0x110, rel.Address())

	s.T().Run("ContainerPatchKeepsMemberIndexes", func(t *testing.T) {
		word := s.field("word")
		hi := s.field("hi")
		wordBefore, hiBefore := word.Index(), hi.Index()

		_, err := s.p.Patch(s.data, LittleEndian)
		require.NoError(t, err)
		assert.Equal(t, wordBefore, word.Index())
		assert.Equal(t, hiBefore, hi.Index())
		assert.Equal(t, Index{Byte: 1, Address: 0x101, BaseAddress: 0x100}, word.Index())
	})
}

func (s *PatchTestSuite) TestStoreOverwrites() {
	word := s.field("word")
	s.Require().NoError(word.SetValue(0xBEEF))

	s.Require().NoError(s.p.Store(s.prov, word, LittleEndian))
	got, err := s.prov.Read(0x101, 2)
	s.Require().NoError(err)
	s.Equal([]byte{0xEF, 0xBE}, got)

	// The neighbouring bytes stay untouched.
	got, err = s.prov.Read(0x100, 1)
	s.Require().NoError(err)
	s.Equal([]byte{0x00}, got)
}

func (s *PatchTestSuite) TestStoreInjectsSubByteField() {
	// Pre-existing content: lo nibble 1, hi nibble 2.
	s.Require().NoError(s.prov.Write(0x103, []byte{0x21}))

	hi := s.field("hi")
	s.Require().NoError(hi.SetValue(0xA))
	s.Require().NoError(s.p.Store(s.prov, hi, LittleEndian))

	got, err := s.prov.Read(0x103, 1)
	s.Require().NoError(err)
	s.Equal([]byte{0xA1}, got)

	s.T().Run("LowNibbleKeepsHighNibble", func(t *testing.T) {
		lo := s.field("lo")
		require := s.Require()
		require.NoError(lo.SetValue(0x7))
		require.NoError(s.p.Store(s.prov, lo, LittleEndian))
		got, err := s.prov.Read(0x103, 1)
		require.NoError(err)
		assert.Equal(t, []byte{0xA7}, got)
	})
}

func (s *PatchTestSuite) TestStoreContainer() {
	s.Require().NoError(s.data.Initialize(map[string]any{
		"id": 0x01, "word": 0x1234, "lo": 0x1, "hi": 0x2,
	}))
	s.Require().NoError(s.p.Store(s.prov, s.data, LittleEndian))

	got, err := s.prov.Read(0x100, 4)
	s.Require().NoError(err)
	s.Equal([]byte{0x01, 0x34, 0x12, 0x21}, got)
}

func (s *PatchTestSuite) TestStoreNilProvider() {
	s.ErrorIs(s.p.Store(nil, s.data, LittleEndian), ErrNilProvider)
}

func TestPatchSuite(t *testing.T) {
	suite.Run(t, new(PatchTestSuite))
}
