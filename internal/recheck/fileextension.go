// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recheck

import "strings"

// parseFileIssueExtensionArgument splits a file-issue-extension log
// argument of the form "target: T class: C" into its target path and
// extension class, mirroring file_issue_extension_parse_target/
// _parse_class in the original sandbox_utils/file.c. ok is false when
// either delimiter is missing.
func parseFileIssueExtensionArgument(argument string) (target, class string, ok bool) {
	const targetMarker = "target: "
	const classMarker = "class: "

	startIdx := strings.Index(argument, targetMarker)
	classIdx := strings.Index(argument, classMarker)
	if startIdx == -1 || classIdx == -1 || classIdx < startIdx {
		return "", "", false
	}

	target = strings.TrimSpace(argument[startIdx+len(targetMarker) : classIdx])
	class = strings.TrimSpace(argument[classIdx+len(classMarker):])
	return target, class, true
}

// extensionClassFor maps a logged app-sandbox class string to the
// sandbox extension class sandbox_extension_issue_file expects,
// mirroring file.c's literal two-way switch.
func extensionClassFor(class string) (string, bool) {
	switch class {
	case "com.apple.app-sandbox.read-write":
		return "com.apple.app-sandbox.read-write", true
	case "com.apple.app-sandbox.read":
		return "com.apple.app-sandbox.read", true
	default:
		return "", false
	}
}
