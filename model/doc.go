/*
Package model provides the entity types exchanged by the native XML
import/export pipeline: contexts, submissions, publications and everything
hanging from them (authors, galleys, submission files and their revisions,
review rounds, review assignments, review forms, queries and notes).

The types carry JSON tags because the store persists them as documents.
Identifiers are assigned by the store; a zero ID means "not persisted yet".
*/
package model
