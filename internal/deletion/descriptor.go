package deletion

// A Guard is a predicate evaluated before any row is touched.  Query
// must be a COUNT statement with a single placeholder bound to the
// entity id; a non-zero count vetoes the deletion and Reason is
// reported to the caller.
type Guard struct {
	Name   string // short identifier, used in tests and logs
	Query  string // SELECT COUNT(*) ... WHERE ... = ?
	Reason string // human-readable refusal
}

// A Step clears one dependent record set (or performs a required
// side-effect pass such as releasing copies).  Stmt takes a single
// placeholder bound to the entity id.  Steps run in slice order,
// leaf-most dependents first.
type Step struct {
	Table string // primary table the statement touches
	Stmt  string // DELETE or UPDATE statement
}

// A Descriptor declares, per deletable entity type, everything the
// Executor needs: the existence probe, the guards, the ordered
// dependent steps and the final self-delete.  Descriptors are plain
// data so the dependency order can be audited and tested without a
// database.
type Descriptor struct {
	Entity     string  // entity name used in error messages
	ExistsStmt string  // SELECT 1 ... WHERE id = ?
	Guards     []Guard // evaluated first, short-circuit on first hit
	Steps      []Step  // dependent cleanup, leaf-most first
	SelfStmt   string  // DELETE of the entity row itself
}

// BookDescriptor declares the cascade for deleting a book: history,
// loans, reservations and inventory hanging off each of its copies,
// then the copies, the category and supplier links and the purchase
// records.  Deletion is vetoed while any copy has a pending/active
// loan or a pending/confirmed reservation; inactive loans and
// reservations are swept by the cascade.
var BookDescriptor = Descriptor{
	Entity:     "libro",
	ExistsStmt: `SELECT 1 FROM libros WHERE id = ?`,
	Guards: []Guard{
		{
			Name: "active-loans",
			Query: `SELECT COUNT(*) FROM prestamos p
			        JOIN ejemplares e ON e.id = p.ejemplar_id
			        WHERE e.libro_id = ? AND p.estado IN ('pendiente','activo')`,
			Reason: "El libro tiene préstamos o reservas activas",
		},
		{
			Name: "active-reservations",
			Query: `SELECT COUNT(*) FROM reservas r
			        JOIN ejemplares e ON e.id = r.ejemplar_id
			        WHERE e.libro_id = ? AND r.estado IN ('pendiente','confirmada')`,
			Reason: "El libro tiene préstamos o reservas activas",
		},
	},
	Steps: []Step{
		{Table: "historial_prestamos", Stmt: `DELETE hp FROM historial_prestamos hp
		 JOIN ejemplares e ON e.id = hp.ejemplar_id WHERE e.libro_id = ?`},
		{Table: "historial_reservas", Stmt: `DELETE hr FROM historial_reservas hr
		 JOIN ejemplares e ON e.id = hr.ejemplar_id WHERE e.libro_id = ?`},
		{Table: "prestamos", Stmt: `DELETE p FROM prestamos p
		 JOIN ejemplares e ON e.id = p.ejemplar_id WHERE e.libro_id = ?`},
		{Table: "reservas", Stmt: `DELETE r FROM reservas r
		 JOIN ejemplares e ON e.id = r.ejemplar_id WHERE e.libro_id = ?`},
		{Table: "inventarios", Stmt: `DELETE i FROM inventarios i
		 JOIN ejemplares e ON e.id = i.ejemplar_id WHERE e.libro_id = ?`},
		{Table: "ejemplares", Stmt: `DELETE FROM ejemplares WHERE libro_id = ?`},
		{Table: "libros_categorias", Stmt: `DELETE FROM libros_categorias WHERE libro_id = ?`},
		{Table: "proveedores_libros", Stmt: `DELETE FROM proveedores_libros WHERE libro_id = ?`},
		{Table: "compras", Stmt: `DELETE FROM compras WHERE libro_id = ?`},
	},
	SelfStmt: `DELETE FROM libros WHERE id = ?`,
}

// UserDescriptor declares the cascade for deleting a patron: role
// assignments, fines, reservations, loans and history.  Before the
// loans are removed, every copy referenced by one of the user's
// loans is released back to 'disponible' (the deletion models
// returning the item).  There is deliberately no guard: a librarian
// deleting a user overrides the user's open loans.
var UserDescriptor = Descriptor{
	Entity:     "usuario",
	ExistsStmt: `SELECT 1 FROM usuarios WHERE id = ?`,
	Steps: []Step{
		{Table: "usuarios_roles", Stmt: `DELETE FROM usuarios_roles WHERE usuario_id = ?`},
		{Table: "multas", Stmt: `DELETE FROM multas WHERE usuario_id = ?`},
		{Table: "reservas", Stmt: `DELETE FROM reservas WHERE usuario_id = ?`},
		{Table: "ejemplares", Stmt: `UPDATE ejemplares e JOIN prestamos p ON p.ejemplar_id = e.id
		 SET e.estado = 'disponible' WHERE p.usuario_id = ?`},
		{Table: "prestamos", Stmt: `DELETE FROM prestamos WHERE usuario_id = ?`},
		{Table: "historial_prestamos", Stmt: `DELETE FROM historial_prestamos WHERE usuario_id = ?`},
		{Table: "historial_reservas", Stmt: `DELETE FROM historial_reservas WHERE usuario_id = ?`},
	},
	SelfStmt: `DELETE FROM usuarios WHERE id = ?`,
}
