// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package command drives asynchronous calls against the backend.
//
// A Command wraps one remote action and tracks whether it is in flight and
// what its last failure was. State is a plain value: callers read snapshots
// with State, or receive every change over a channel from Subscribe. The
// bubbletea adapters (Cmd, Listen) turn both into tea.Msg values so a
// program never shares memory with the command.
//
// Basic usage:
//
//	client := api.NewClient(api.DefaultConfig())
//	gen := command.New("generate", command.HTTP(client, api.PathGenerateCode))
//	env, err := gen.Invoke(ctx, api.GenerateCodeRequest{Description: "reverse a string", Language: "python"})
//	if err != nil {
//	    fmt.Println(gen.LastError())
//	}
package command
