package deletion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepTables(d Descriptor) []string {
	out := make([]string, 0, len(d.Steps))
	for _, s := range d.Steps {
		out = append(out, s.Table)
	}
	return out
}

func stepIndex(t *testing.T, d Descriptor, table string) int {
	t.Helper()
	for i, s := range d.Steps {
		if s.Table == table {
			return i
		}
	}
	t.Fatalf("descriptor %s has no step for table %s", d.Entity, table)
	return -1
}

func TestBookDescriptorStepOrder(t *testing.T) {
	assert.Equal(t, []string{
		"historial_prestamos",
		"historial_reservas",
		"prestamos",
		"reservas",
		"inventarios",
		"ejemplares",
		"libros_categorias",
		"proveedores_libros",
		"compras",
	}, stepTables(BookDescriptor))

	// Everything hanging off a copy must be cleared before the copies
	// themselves.
	copies := stepIndex(t, BookDescriptor, "ejemplares")
	for _, tbl := range []string{"historial_prestamos", "historial_reservas", "prestamos", "reservas", "inventarios"} {
		assert.Less(t, stepIndex(t, BookDescriptor, tbl), copies, "%s must precede ejemplares", tbl)
	}
}

func TestBookDescriptorGuards(t *testing.T) {
	require.Len(t, BookDescriptor.Guards, 2)

	loans := BookDescriptor.Guards[0]
	assert.Equal(t, "active-loans", loans.Name)
	assert.Contains(t, loans.Query, "'pendiente','activo'")

	reservations := BookDescriptor.Guards[1]
	assert.Equal(t, "active-reservations", reservations.Name)
	assert.Contains(t, reservations.Query, "'pendiente','confirmada'")

	// Both guards surface the same message to the caller.
	assert.Equal(t, "El libro tiene préstamos o reservas activas", loans.Reason)
	assert.Equal(t, loans.Reason, reservations.Reason)
}

func TestUserDescriptorHasNoGuards(t *testing.T) {
	assert.Empty(t, UserDescriptor.Guards)
}

func TestUserDescriptorReleasesCopiesBeforeLoanPurge(t *testing.T) {
	release := stepIndex(t, UserDescriptor, "ejemplares")
	purge := stepIndex(t, UserDescriptor, "prestamos")
	assert.Less(t, release, purge)

	// The release pass is an UPDATE, not a delete.
	assert.True(t, strings.HasPrefix(strings.TrimSpace(UserDescriptor.Steps[release].Stmt), "UPDATE"))
	assert.Contains(t, UserDescriptor.Steps[release].Stmt, "'disponible'")
}

func TestDescriptorsAreSelfContained(t *testing.T) {
	for _, d := range []Descriptor{BookDescriptor, UserDescriptor} {
		assert.NotEmpty(t, d.Entity)
		assert.NotEmpty(t, d.ExistsStmt)
		assert.NotEmpty(t, d.SelfStmt)
		for _, s := range d.Steps {
			assert.NotEmpty(t, s.Table)
			assert.Contains(t, s.Stmt, "?")
		}
		for _, g := range d.Guards {
			assert.Contains(t, g.Query, "COUNT")
			assert.NotEmpty(t, g.Reason)
		}
	}
}
