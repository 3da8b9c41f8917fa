// assistant - code generation, review, document analysis and chat from the
// terminal, backed by a text-generation HTTP service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/assistant/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	os.Exit(cli.Execute())
}
