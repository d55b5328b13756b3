/*
Package message provides the event messages published after native XML
runs.

Messages are JSON documents made of a header and a body whose type is chosen
after the header message type. Every message type has a JSON schema embedded
in the binary (see the schema directory) and outgoing messages are validated
against it before they are published.

When a body changes, update its schema and bump Version.
*/
package message
