// Package memkeep provides a fixed capacity arena for mutable simulation state.
//
// Values are addressed through generational Ids. Once a value is removed, every Id
// referring to it stays invalid, even after its slot has been reused for a new value.
//
// Removal happens in two phases: Remove hides a value immediately but keeps it in place,
// GC reclaims all removed slots. Pointers handed out by the arena are valid until the
// next GC, which is why GC should be the last thing to happen in a simulation tick.
//
//	pawns := memkeep.New[Pawn](1024)
//	id, err := memkeep.Insert(pawns, Pawn{Name: "Ada"})
//
//	if pawn, ok := pawns.Get(id); ok {
//		pawn.Hunger += 1
//	}
//
//	pawns.Remove(id)
//	pawns.GC()
package memkeep
