// Package native converts the entity graph of a publishing context to and
// from the native XML interchange format.
//
// Every entity kind has one Codec. Codecs are looked up through a Registry
// and receive an explicit *Deployment carrying the target context, the ID
// remapping tables and the run report. Fatal conditions are returned as
// errors; everything else is recorded in the report and processing goes on.
package native
