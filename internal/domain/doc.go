// Package domain holds the study engine's core entities: flash cards,
// study sessions, and the value types they share. It carries the
// validation rules and patch semantics for those entities and depends
// on no infrastructure or delivery mechanism.
package domain
