package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_BasicWriting(t *testing.T) {
	// Test: Basic write operations
	w := NewWriter("\t")

	w.Write("hello")
	w.Write(" world")

	assert.Equal(t, "hello world", w.String())
}

func TestWriter_Indentation(t *testing.T) {
	// Test: Proper indentation handling
	w := NewWriter("\t")

	w.WriteLine("func main() {")
	w.Indent()
	w.WriteLine("return")
	w.Dedent()
	w.WriteLine("}")

	assert.Equal(t, "func main() {\n\treturn\n}\n", w.String())
}

func TestWriter_WriteBlock(t *testing.T) {
	// Test: WriteBlock indents its content one extra level
	w := NewWriter("\t")

	w.WriteBlock("switch id {", "}", func() {
		w.WriteLine("case 1:")
		w.Indent()
		w.WriteLine("return nil")
		w.Dedent()
	})

	expected := "switch id {\n\tcase 1:\n\t\treturn nil\n}\n"
	assert.Equal(t, expected, w.String())
}

func TestWriter_BlankLine(t *testing.T) {
	// Test: BlankLine never stacks multiple blank lines
	w := NewWriter("\t")

	w.WriteLine("line1")
	w.BlankLine()
	w.BlankLine()
	w.WriteLine("line2")

	lines := strings.Split(w.String(), "\n")
	require.Len(t, lines, 4) // line1, blank, line2, trailing empty
	assert.Equal(t, "line1", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "line2", lines[2])
}

func TestWriter_WriteDocComment(t *testing.T) {
	// Test: Each doc line becomes a comment line, blanks become bare markers
	w := NewWriter("\t")

	w.WriteDocComment("First line.\n\nSecond paragraph.")

	assert.Equal(t, "// First line.\n//\n// Second paragraph.\n", w.String())
}

func TestWriter_Writef(t *testing.T) {
	// Test: Formatted writes respect indentation
	w := NewWriter("  ")

	w.Indent()
	w.WriteLinef("const %s = %d", "Layer", 181)

	assert.Equal(t, "  const Layer = 181\n", w.String())
}
