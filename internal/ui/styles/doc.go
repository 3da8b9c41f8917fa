// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and text styles for terminal
output.

All colors use Lip Gloss AdaptiveColor, so they follow the terminal's light
or dark background. A Theme can pin the background with the ui.theme setting
("dark", "light" or "auto").

	theme := styles.NewTheme("auto")
	fmt.Println(theme.Error.Render("[Error]"), msg)

NO_COLOR and non-terminal output degrade to plain text through termenv's
profile detection.
*/
package styles
