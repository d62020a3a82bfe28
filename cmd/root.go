// Copyright © 2023 Mike Bland <mbland@acm.org>.
// See LICENSE.txt for details.

package cmd

import (
	"github.com/spf13/cobra"
)

const sessionsDesc = "Newsletter and demo submission API for " +
	"The Hangover Sessions website"
const sessionsDescLong = sessionsDesc + `

To preview the notification sent for a demo submission:
  sessionsapi preview --example

To subscribe an address through the deployed function:
  sessionsapi subscribe -s <STACK_NAME> --email <ADDRESS> [--name <NAME>]

To import a list of addresses, one per line:
  sessionsapi import -s <STACK_NAME> < addresses.txt

To serve the API locally, reading configuration from the environment:
  sessionsapi serve --addr :8787
`

var rootCmd = &cobra.Command{
	Use:     "sessionsapi",
	Version: "v0.1.0",
	Short:   sessionsDesc,
	Long:    sessionsDescLong,
}

func Execute() error {
	return rootCmd.Execute()
}
