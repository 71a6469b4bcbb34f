/*
Package cli provides command-line helpers used by the relay command.

Output Formatting:

Query commands render results as aligned text, JSON or CSV. Tabular data
implements Table:

	format, err := cli.ParseOutputFormat(flags.format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, records)

Errors:

Commands return ConfigError for bad flags or configuration and CommandError
for failures; ExitCode maps either to a process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
