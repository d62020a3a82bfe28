// Copyright © 2023 Mike Bland <mbland@acm.org>
// See LICENSE.txt for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thehangoversessions/sessionsapi/events"
)

const importDescription = `` +
	`Subscribes a list of email addresses to the newsletter list

Reads the list of addresses from standard input, one address per line. Blank
lines, surrounding whitespace, and repeated addresses are ignored.

Each address goes through the same subscription steps as the website's
newsletter form, so addresses already on the list are left as they are. The
function spaces out subscriptions according to its IMPORT_INTERVAL setting.
On completion, prints how many addresses were subscribed by each step.
`

func init() {
	rootCmd.AddCommand(newImportCmd(NewSessionsLambda))
}

func newImportCmd(newFunc SessionsFactoryFunc) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:   "import",
		Short: "Subscribe a list of addresses read from standard input",
		Long:  importDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return importAddresses(cmd, newFunc, getStackName(cmd))
		},
	}
	registerStackName(cmd)
	cmd.MarkFlagRequired(FlagStackName)
	return
}

func importAddresses(
	cmd *cobra.Command, newFunc SessionsFactoryFunc, stackName string,
) (err error) {
	cmd.SilenceUsage = true
	var addresses []string
	var sessionsFunc SessionsFunc

	if addresses, err = readAddresses(cmd.InOrStdin()); err != nil {
		return fmt.Errorf("failed to read email addresses from stdin: %w", err)
	} else if sessionsFunc, err = newFunc(stackName); err != nil {
		return
	}

	evt := &events.CommandLineEvent{
		SessionsCommand: events.CommandLineImportEvent,
		Import:          &events.ImportEvent{Addresses: addresses},
	}
	var response events.ImportResponse

	if err = sessionsFunc.Invoke(context.Background(), evt, &response); err != nil {
		return fmt.Errorf("import failed: %w", err)
	} else if n := response.NumImported + len(response.Failures); n != len(addresses) {
		const errFmt = "import failed: response covers %d of %d addresses"
		return fmt.Errorf(errFmt, n, len(addresses))
	}

	cmd.Print(importSummary(&response, len(addresses)))
	return importFailures(response.Failures, len(addresses))
}

func readAddresses(input io.Reader) ([]string, error) {
	lines := make([]string, 0, 100)
	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	addresses := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
	return lo.Uniq(addresses), scanner.Err()
}

func importSummary(response *events.ImportResponse, total int) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Imported %d of %d addresses.\n", response.NumImported, total)

	results := lo.Keys(response.Results)
	slices.Sort(results)
	for _, result := range results {
		fmt.Fprintf(sb, "  %s: %d\n", result, response.Results[result])
	}
	return sb.String()
}

func importFailures(failures []string, total int) error {
	if len(failures) == 0 {
		return nil
	}
	const errFmt = "failed to import %d of %d addresses:\n  %s"
	return fmt.Errorf(errFmt, len(failures), total, strings.Join(failures, "\n  "))
}
