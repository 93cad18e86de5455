// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filtertype

import "strings"

// FilterType is a kernel filter category the sandbox oracle accepts
// alongside an operation name and (for most categories) an argument.
type FilterType int

const (
	// None is passed for operations that take no argument at all.
	None FilterType = iota
	Path
	GlobalName
	LocalName
	AppleEventDestination
	RightName
	PreferenceDomain
	KextBundleID
	InfoType
	Notification
	// Unknown marks operations whose filter category cannot be
	// determined from the operation name alone.
	Unknown
)

// String returns the oracle wire-protocol name for t.
func (t FilterType) String() string {
	switch t {
	case None:
		return "none"
	case Path:
		return "path"
	case GlobalName:
		return "global-name"
	case LocalName:
		return "local-name"
	case AppleEventDestination:
		return "appleevent-destination"
	case RightName:
		return "right-name"
	case PreferenceDomain:
		return "preference-domain"
	case KextBundleID:
		return "kext-bundle-id"
	case InfoType:
		return "info-type"
	case Notification:
		return "notification"
	default:
		return "unknown"
	}
}

// All returns every concrete (non-Unknown) filter type, in the order
// the oracle tries them when brute-forcing an unknown-filter
// operation against a default-deny policy (spec.md §4.5.1).
func All() []FilterType {
	return []FilterType{
		Path, GlobalName, LocalName, AppleEventDestination, RightName,
		PreferenceDomain, KextBundleID, InfoType, Notification,
	}
}

// argumentless lists operations that never carry a resource argument;
// their events are checked with filter type None (spec.md §4.4).
var argumentless = map[string]bool{
	"process-fork": true,
	"signal":       true,
}

// For resolves the filter type for an operation name (spec.md §4.4):
// operations beginning with "file" resolve to Path; "mach-register"
// resolves to GlobalName (the log format cannot distinguish a local
// registration from a global one, so the resolver picks the
// conservative global check, see §9); operations known to take no
// argument resolve to None; everything else is Unknown.
func For(operation string) FilterType {
	if strings.HasPrefix(operation, "file") {
		return Path
	}
	if operation == "mach-register" {
		return GlobalName
	}
	if argumentless[operation] {
		return None
	}
	return Unknown
}
