// Package version holds the build version, set at link time with
// -ldflags "-X github.com/JiscSD/native-xml-adapter/version.VERSION=...".
package version

var VERSION = "dev"
