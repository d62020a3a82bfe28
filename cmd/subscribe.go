package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thehangoversessions/sessionsapi/events"
)

const subscribeDescription = `` +
	`Subscribes an email address to the newsletter list

Invokes the deployed function, which runs the same subscription steps as the
website's newsletter form.
`

func init() {
	rootCmd.AddCommand(newSubscribeCmd(NewSessionsLambda))
}

func newSubscribeCmd(newFunc SessionsFactoryFunc) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:   "subscribe",
		Short: "Subscribe an address to the newsletter",
		Long:  subscribeDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return subscribeAddress(
				cmd,
				newFunc,
				getStackName(cmd),
				getStringFlag(cmd, FlagEmail),
				getStringFlag(cmd, FlagName),
			)
		},
	}
	registerStackName(cmd)
	cmd.Flags().StringP(FlagEmail, "e", "", "email address to subscribe")
	cmd.Flags().StringP(FlagName, "n", "", "name of the subscriber")
	cmd.MarkFlagRequired(FlagStackName)
	cmd.MarkFlagRequired(FlagEmail)
	return
}

func subscribeAddress(
	cmd *cobra.Command,
	newFunc SessionsFactoryFunc,
	stackName, address, name string,
) (err error) {
	cmd.SilenceUsage = true
	var sessionsFunc SessionsFunc

	if sessionsFunc, err = newFunc(stackName); err != nil {
		return
	}

	evt := &events.CommandLineEvent{
		SessionsCommand: events.CommandLineSubscribeEvent,
		Subscribe:       &events.SubscribeRequest{Email: address, Name: name},
	}
	var response events.SubscribeResponse

	if err = sessionsFunc.Invoke(context.Background(), evt, &response); err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	} else if response.Result == "" {
		return fmt.Errorf("subscribe failed: empty response for %s", address)
	} else if !response.Success {
		const errFmt = "failed to subscribe %s: %s: %s"
		return fmt.Errorf(errFmt, address, response.Result, response.Details)
	}
	cmd.Printf("Subscribed %s: %s\n", address, response.Result)
	return
}
