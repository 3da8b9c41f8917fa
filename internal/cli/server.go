// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// errUnhealthy is returned by "health" when the backend reports a problem.
var errUnhealthy = errors.New("backend is unhealthy")

func (a *app) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the backend can serve",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := a.client().ListModels(cmd.Context())
			if err != nil {
				return err
			}
			if models == nil {
				models = []string{}
			}
			return a.emit(cmd, models, func() {
				if len(models) == 0 {
					a.out.Println("The backend reported no models.")
					return
				}
				for _, m := range models {
					marker := "  "
					if m == a.cfg.Server.Model {
						marker = "* "
					}
					a.out.Println(marker + m)
				}
			})
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up and configured",
		Long: `Query the backend health endpoint. Exits non-zero when the backend
cannot be reached or reports itself unhealthy.`,
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}

			var unhealthy error
			if !health.Healthy() {
				unhealthy = errUnhealthy
				if health.Error != "" {
					unhealthy = fmt.Errorf("%w: %s", errUnhealthy, health.Error)
				}
				if a.jsonOutput {
					return unhealthy
				}
			}

			err = a.emit(cmd, health, func() {
				a.out.Field("Backend", a.cfg.Server.BaseURL)
				a.out.Field("Status", health.Status)
				a.out.Field("API key configured", strconv.FormatBool(health.APIKeyConfigured))
				a.out.Field("Client initialized", strconv.FormatBool(health.ClientInitialized))
				if health.Error != "" {
					a.out.Field("Error", health.Error)
				}
			})
			if err != nil {
				return err
			}
			return unhealthy
		},
	}
}
