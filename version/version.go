// Package version provides default versions, user-agents etc. for client identification.
package version

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
)

const (
	clientName = "BC"
	// Bump when client behaviour changes in a way trackers or peers could care about.
	major, minor, revision, tag = 0, 0, 0, 1
)

var (
	// Azureus-style peer ID prefix, see BEP 20.
	DefaultBep20Prefix = GenerateFingerprint(clientName, major, minor, revision, tag)
	// The module version, or "(devel)" when built from a checkout.
	ModuleVersion = "unknown"
	// Set from ModuleVersion at init.
	DefaultHttpUserAgent string

	// libtorrent/src/http_tracker_connection.cpp
	AnonymousHttpUserAgent = "curl/7.81.0"
)

func init() {
	const (
		longNamespace   = "bencodec"
		longPackageName = "torrent"
	)
	type Newtype struct{}
	var newtype Newtype
	thisPkg := reflect.TypeOf(newtype).PkgPath()
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		thisModule := ""
		// Note that if the main module is the same as this module, we get a version of "(devel)".
		for _, dep := range append(buildInfo.Deps, &buildInfo.Main) {
			if strings.HasPrefix(thisPkg, dep.Path) && len(dep.Path) >= len(thisModule) {
				thisModule = dep.Path
				ModuleVersion = dep.Version
			}
		}
	}
	// Per https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/User-Agent#library_and_net_tool_ua_strings
	DefaultHttpUserAgent = fmt.Sprintf(
		"%v-%v/%v",
		longNamespace,
		longPackageName,
		ModuleVersion,
	)
}
