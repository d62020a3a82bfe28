// Copyright © 2023 Mike Bland <mbland@acm.org>
// See LICENSE.txt for details.

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/handler"
)

func init() {
	rootCmd.AddCommand(newPreviewCommand())
}

func newPreviewCommand() *cobra.Command {
	var emitExample bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a demo submission notification without sending it",
		Long: `Reads a JSON object from standard input describing a demo submission:

` + email.ExampleContactJson + `

It then emits the notification the sessions team would receive for that
submission to standard output, addressed using the SENDER_EMAIL, SENDER_NAME,
CONTACT_EMAIL, and CONTACT_NAME environment variables if defined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			input := cmd.InOrStdin()
			if emitExample {
				input = strings.NewReader(email.ExampleContactJson)
			}
			return email.EmitPreviewMessageFromJson(
				previewNotifier(os.Getenv), input, cmd.OutOrStdout(),
			)
		},
	}
	cmd.Flags().BoolVarP(
		&emitExample, "example", "x", false,
		"Use the help example to generate the preview",
	)
	return cmd
}

func previewNotifier(getenv func(string) string) *email.DemoNotifier {
	notifier := *email.ExampleNotifier
	assign := func(opt *string, varname string) {
		if value := getenv(varname); value != "" {
			*opt = value
		}
	}
	assign(&notifier.Sender.Email, "SENDER_EMAIL")
	assign(&notifier.Sender.Name, "SENDER_NAME")
	assign(&notifier.Recipient.Email, "CONTACT_EMAIL")
	assign(&notifier.Recipient.Name, "CONTACT_NAME")
	notifier.SiteName = handler.SiteName
	return &notifier
}

