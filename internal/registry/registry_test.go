package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistryAllocateAndLookup(t *testing.T) {
	r := NewTypeRegistry()
	assert.Equal(t, uint16(0), r.GetID("Person"))

	id := r.AllocateNext("Person")
	assert.Equal(t, uint16(1), id)
	assert.Equal(t, id, r.GetID("Person"))

	name, ok := r.GetName(id)
	require.True(t, ok)
	assert.Equal(t, "Person", name)
}

func TestTypeRegistryInsertIdempotent(t *testing.T) {
	r := NewTypeRegistry()
	id := r.AllocateNext("Person")

	// Simulating a second insertOrGetTypeId call on the coordinator:
	// the caller never calls AllocateNext twice for the same name, it
	// checks GetID first.
	again := r.GetID("Person")
	assert.Equal(t, id, again)
}

func TestTypeRegistryReplicaInstall(t *testing.T) {
	coordinator := NewTypeRegistry()
	id := coordinator.AllocateNext("Person")

	replica := NewTypeRegistry()
	replica.Install("Person", id)

	assert.Equal(t, id, replica.GetID("Person"))
	// Next allocation on the replica (should it ever coordinate) does not
	// collide with the installed id.
	second := replica.AllocateNext("Pet")
	assert.NotEqual(t, id, second)
}

func TestTypeRegistryDeleteDoesNotReclaimID(t *testing.T) {
	r := NewTypeRegistry()
	id := r.AllocateNext("Person")
	r.Delete(id)

	assert.Equal(t, uint16(0), r.GetID("Person"))
	_, ok := r.GetName(id)
	assert.False(t, ok)

	next := r.AllocateNext("Animal")
	assert.NotEqual(t, id, next)
	assert.Greater(t, next, id)
}

func TestTypeRegistryCountAndNames(t *testing.T) {
	r := NewTypeRegistry()
	r.AllocateNext("Person")
	petID := r.AllocateNext("Pet")
	r.Delete(petID)

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"Person"}, r.Names())
}

func TestSchemaDeclareAndConflict(t *testing.T) {
	s := NewTypeSchema()
	_, err := s.Declare("Person", "age", KindInt64)
	require.NoError(t, err)

	_, err = s.Declare("Person", "age", KindInt64)
	assert.NoError(t, err, "redeclaring the same kind is not a conflict")

	_, err = s.Declare("Person", "age", KindString)
	require.Error(t, err)
	var conflict *ErrSchemaConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestSchemaGetAndDelete(t *testing.T) {
	s := NewTypeSchema()
	_, err := s.Declare("Person", "name", KindString)
	require.NoError(t, err)

	kind, index, ok := s.Get("name")
	require.True(t, ok)
	assert.Equal(t, KindString, kind)
	assert.Equal(t, 0, index)

	s.Delete("name")
	_, _, ok = s.Get("name")
	assert.False(t, ok)
}

func TestSchemaColumnIndexStableAcrossDelete(t *testing.T) {
	s := NewTypeSchema()
	_, err := s.Declare("Person", "name", KindString)
	require.NoError(t, err)
	_, err = s.Declare("Person", "age", KindInt64)
	require.NoError(t, err)

	s.Delete("name")
	_, ageIndex, ok := s.Get("age")
	require.True(t, ok)
	assert.Equal(t, 1, ageIndex, "age's column index must not shift when name is tombstoned")
}

func TestSchemaRegistryPerType(t *testing.T) {
	r := NewSchemaRegistry()
	personSchema := r.Schema(1)
	_, err := personSchema.Declare("Person", "age", KindInt64)
	require.NoError(t, err)

	petSchema := r.Schema(2)
	assert.Empty(t, petSchema.Names())
	assert.Equal(t, []string{"age"}, r.Schema(1).Names())
}
