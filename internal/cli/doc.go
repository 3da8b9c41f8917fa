// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the assistant command line.

Commands:

	assistant generate "reverse a string" -l python
	assistant review -f main.py
	assistant analyze -t sentiment < review.txt
	assistant ask "what changed?" --context-file notes.md
	assistant chat --system "You are terse."
	assistant history list --kind review
	assistant history show 3f2a
	assistant models
	assistant health
	assistant config set server.base_url http://gpu-box:8000

Every backend call goes through an async command, so a terminal shows a
spinner while the call is pending and ctrl+c abandons it. Results are added
to the history log and, unless --no-history is given, saved to the
configured store.

With --json every command writes a single JSON object to stdout:

	{"success": true, "data": {...}, "error": null, "timestamp": "...", "command": "generate"}

Errors are printed as "[Error] <message>" on stderr and map to exit codes
(see ExitUsageError and friends).
*/
package cli
