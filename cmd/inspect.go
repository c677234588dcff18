/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/comsol2aero/utils"
)

// newInspectCmd represents the inspect command
func newInspectCmd(v *viper.Viper) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect [FILE]",
		Short: "Summarize a COMSOL mesh without converting it",
		Long: `
Parses a COMSOL Multiphysics text mesh (.mphtxt) and prints its header, element
sets, selections and coordinate bounds as YAML. With --raw the whole parsed
model is dumped instead.

comsol2aero inspect mesh.mphtxt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := utils.NewNotepad(cmd.ErrOrStderr(), v.GetBool("verbose"))
			m, err := readMesh(cmd, args, log)
			if err != nil {
				return err
			}
			if raw, _ := cmd.Flags().GetBool("raw"); raw {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(cmd.OutOrStdout(), m)
				return nil
			}
			out, err := m.Summarize().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	inspectCmd.Flags().Bool("raw", false, "dump the complete parsed model")
	return inspectCmd
}
