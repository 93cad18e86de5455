// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taxonomy

// defaultTableYAML is the built-in operation table, covering the
// operation families the recheck oracle (internal/recheck) knows how
// to actively probe plus the general file/network/mach families that
// dominate real sandbox logs. The platform tag lets callers detect a
// table/policy mismatch (spec.md §9's open question); it is bumped
// whenever the table below changes shape.
const defaultTableYAML = `
platform: macos-sandbox-coverage-table-v1
operations:
  default:
    node_type: terminal
    default_action: deny

  file-read-data:
    node_type: fallback
    fallback_op: file-read*
    default_action: deny
  file-read-metadata:
    node_type: fallback
    fallback_op: file-read*
    default_action: deny
  file-read*:
    node_type: terminal
    default_action: deny

  file-write-data:
    node_type: fallback
    fallback_op: file-write*
    default_action: deny
  file-write-create:
    node_type: fallback
    fallback_op: file-write*
    default_action: deny
  file-write-unlink:
    node_type: fallback
    fallback_op: file-write*
    default_action: deny
  file-write*:
    node_type: terminal
    default_action: deny

  file-map-executable:
    node_type: fallback
    fallback_op: file-read-data
    default_action: allow

  file-issue-extension:
    node_type: terminal
    default_action: deny

  ipc-posix-shm-read-data:
    node_type: fallback
    fallback_op: ipc-posix-shm*
    default_action: deny
  ipc-posix-shm-read-metadata:
    node_type: fallback
    fallback_op: ipc-posix-shm*
    default_action: deny
  ipc-posix-shm-write-data:
    node_type: fallback
    fallback_op: ipc-posix-shm*
    default_action: deny
  ipc-posix-shm-write-create:
    node_type: fallback
    fallback_op: ipc-posix-shm*
    default_action: deny
  ipc-posix-shm-write-unlink:
    node_type: fallback
    fallback_op: ipc-posix-shm*
    default_action: deny
  ipc-posix-shm*:
    node_type: terminal
    default_action: deny

  ipc-posix-sem-create:
    node_type: fallback
    fallback_op: ipc-posix-sem*
    default_action: deny
  ipc-posix-sem-open:
    node_type: fallback
    fallback_op: ipc-posix-sem*
    default_action: deny
  ipc-posix-sem-post:
    node_type: fallback
    fallback_op: ipc-posix-sem*
    default_action: deny
  ipc-posix-sem-unlink:
    node_type: fallback
    fallback_op: ipc-posix-sem*
    default_action: deny
  ipc-posix-sem-wait:
    node_type: fallback
    fallback_op: ipc-posix-sem*
    default_action: deny
  ipc-posix-sem*:
    node_type: terminal
    default_action: deny

  iokit-open:
    node_type: terminal
    default_action: deny

  mach-register:
    node_type: terminal
    default_action: deny
  mach-lookup:
    node_type: fallback
    fallback_op: mach*
    default_action: deny
  mach*:
    node_type: terminal
    default_action: deny

  nvram-get:
    node_type: fallback
    fallback_op: nvram*
    default_action: deny
  nvram-set:
    node_type: fallback
    fallback_op: nvram*
    default_action: deny
  nvram*:
    node_type: terminal
    default_action: deny

  process-fork:
    node_type: terminal
    default_action: deny
  process-info-dirtycontrol:
    node_type: fallback
    fallback_op: process-info*
    default_action: deny
  process-info-pidinfo:
    node_type: fallback
    fallback_op: process-info*
    default_action: deny
  process-info-setcontrol:
    node_type: fallback
    fallback_op: process-info*
    default_action: deny
  process-info*:
    node_type: terminal
    default_action: deny

  signal:
    node_type: terminal
    default_action: deny

  network-outbound:
    node_type: fallback
    fallback_op: network*
    default_action: deny
  network-inbound:
    node_type: fallback
    fallback_op: network*
    default_action: deny
  network-bind:
    node_type: fallback
    fallback_op: network*
    default_action: deny
  network*:
    node_type: terminal
    default_action: deny
`
