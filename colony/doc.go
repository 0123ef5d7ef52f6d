// Package colony is a small tick based colony simulation.
//
// Pawns live in houses and work on farms. They carry food home and starve when there is none.
// Buildings decay over time and collapse. Every pawn and building is stored in a memkeep arena,
// relations between them are plain ids that may go stale at any time.
package colony
