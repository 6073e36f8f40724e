package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableSchema = `
inputPeerEmpty#7f3b18ea = InputPeer;
inputPeerSelf#7da07ec9 = InputPeer;
user#d23c81a3 id:long = User;
userEmpty#d3bc4b7a id:long = User;

---functions---

users.getUsers#0d91a548 id:Vector<InputUser> = Vector<User>;
messages.getMessages#63c66506 id:Vector<int> = messages.Messages;
`

func TestBuildTypeTable_TypeToConstructors(t *testing.T) {
	// Test: Abstract types collect their constructors in declaration order
	s, err := Parse(tableSchema)
	require.NoError(t, err)

	table := BuildTypeTable(s)

	assert.Equal(t, []string{"InputPeerEmpty", "InputPeerSelf"}, table.TypeToConstructors["InputPeer"])
	assert.Equal(t, []string{"User", "UserEmpty"}, table.TypeToConstructors["User"])
}

func TestBuildTypeTable_TypeToFunctions(t *testing.T) {
	// Test: Function return types are vector-unwrapped before indexing
	s, err := Parse(tableSchema)
	require.NoError(t, err)

	table := BuildTypeTable(s)

	assert.Equal(t, []string{"users.GetUsers"}, table.TypeToFunctions["User"])
	assert.Equal(t, []string{"messages.GetMessages"}, table.TypeToFunctions["messages.Messages"])
}

func TestBuildTypeTable_ConstructorToFunctions(t *testing.T) {
	// Test: Constructors link to the functions returning their type
	s, err := Parse(tableSchema)
	require.NoError(t, err)

	table := BuildTypeTable(s)

	assert.Equal(t, []string{"users.GetUsers"}, table.ConstructorToFunctions["User"])
	assert.Equal(t, []string{"users.GetUsers"}, table.ConstructorToFunctions["UserEmpty"])
	assert.Empty(t, table.ConstructorToFunctions["InputPeerEmpty"])
}

func TestBuildTypeTable_Namespaces(t *testing.T) {
	// Test: Namespace buckets are split by section and deduplicated for types
	s, err := Parse(tableSchema)
	require.NoError(t, err)

	table := BuildTypeTable(s)

	assert.Equal(t, []string{"InputPeer", "User"}, table.NamespaceToTypes[""])
	assert.Equal(t, []string{"InputPeerEmpty", "InputPeerSelf", "User", "UserEmpty"}, table.NamespaceToConstructors[""])
	assert.Equal(t, []string{"GetUsers"}, table.NamespaceToFunctions["users"])
	assert.Equal(t, []string{"GetMessages"}, table.NamespaceToFunctions["messages"])
}

func TestUnwrapVector(t *testing.T) {
	// Test: A single vector wrapper is stripped, anything else untouched
	assert.Equal(t, "User", UnwrapVector("Vector<User>"))
	assert.Equal(t, "User", UnwrapVector("User"))
	assert.Equal(t, "Vector<int>", UnwrapVector("Vector<Vector<int>>"))
}
