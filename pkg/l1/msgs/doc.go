// Package msgs defines the wire protocol between a bridge host and remote
// scripting hosts.
//
// Every message travels inside a Typed envelope carrying a type ID and a
// sequence number correlating replies to commands.
//
// Producer: bridge host (replies, telemetry events)
// Consumer: scripting hosts (commands)
package msgs
