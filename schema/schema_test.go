package schema_test

import (
	"testing"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Field{
		{Name: "a", Type: fluxlog.TypeInt64},
		{Name: "b", Type: fluxlog.TypeString, Size: 16},
		{Name: "c", Type: fluxlog.TypeFloat64},
	})
	require.NoError(t, err)
	return s
}

func TestSchemaLayout(t *testing.T) {
	s := testSchema(t)
	cols := s.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, 0, cols[0].Offset)
	assert.Equal(t, 8, cols[0].Size)
	assert.Equal(t, 8, cols[1].Offset)
	assert.Equal(t, 16, cols[1].Size)
	assert.Equal(t, 24, cols[2].Offset)
	assert.Equal(t, 8, cols[2].Size)
	assert.Equal(t, 32, s.Size())
}

func TestSchemaNewErrors(t *testing.T) {
	_, err := schema.New([]schema.Field{
		{Name: "a", Type: fluxlog.TypeInt64},
		{Name: "a", Type: fluxlog.TypeFloat64},
	})
	assert.EqualError(t, err, `duplicate schema field "a"`)

	_, err = schema.New([]schema.Field{{Type: fluxlog.TypeInt64}})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	s := testSchema(t)
	c, err := s.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Index)
	assert.Equal(t, fluxlog.TypeString, c.Type)
}

func TestLookupUnknownField(t *testing.T) {
	s := testSchema(t)
	_, err := s.Lookup("z")
	var unknown *schema.UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "z", unknown.Name)

	// A near miss gets a suggestion.
	_, err = s.Lookup("aa")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "a", unknown.Suggestion)
	assert.Contains(t, unknown.Error(), "did you mean")
}

func TestRecordPackUnpack(t *testing.T) {
	s := testSchema(t)
	rec, err := s.ParseRecord("10", "x", "1.5")
	require.NoError(t, err)

	buf := s.Pack(rec)
	require.Len(t, buf, s.Size())

	back, err := s.Unpack(buf)
	require.NoError(t, err)
	for i := 0; i < rec.Len(); i++ {
		assert.Zero(t, rec.ValueAt(i).Compare(back.ValueAt(i)), "column %d", i)
	}
}

func TestSnapshotExtract(t *testing.T) {
	s := testSchema(t)
	rec, err := s.ParseRecord("10", "x", "1.5")
	require.NoError(t, err)
	buf := s.Pack(rec)
	snap := s.Snapshot()
	assert.Equal(t, s.Size(), snap.Size())

	assert.Equal(t, int64(10), fluxlog.DecodeInt64(snap.Extract(buf, 0).Bytes))
	assert.Equal(t, "x", snap.Extract(buf, 1).Format())
	assert.Equal(t, 1.5, fluxlog.DecodeFloat64(snap.Extract(buf, 2).Bytes))
}

func TestNewRecordErrors(t *testing.T) {
	s := testSchema(t)

	_, err := s.NewRecord(fluxlog.NewInt64(1))
	assert.Error(t, err)

	_, err = s.NewRecord(fluxlog.NewInt64(1), fluxlog.NewInt64(2), fluxlog.NewFloat64(3))
	assert.Error(t, err)

	_, err = s.NewRecord(
		fluxlog.NewInt64(1),
		fluxlog.NewString("this string does not fit in sixteen bytes"),
		fluxlog.NewFloat64(3),
	)
	assert.Error(t, err)
}

func TestUnpackShortBuffer(t *testing.T) {
	s := testSchema(t)
	_, err := s.Unpack(make([]byte, s.Size()-1))
	assert.Error(t, err)
}
