// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the user-facing actions: code generation and
// review, document analysis, and chat.
//
// Every action follows the same steps. Blank input is rejected before any
// request is made. The backend call goes through a command.Command, so
// pending and error state are tracked per action. A successful result is
// appended to the shared history log. A failed call appends nothing.
//
//	a := assistant.New(api.NewClient(nil), assistant.WithStore(store))
//	entry, err := a.Code.Generate(ctx, "reverse a string", "python")
//	if err != nil {
//	    fmt.Println(a.Code.Error())
//	}
package assistant
