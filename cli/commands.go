package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Decode, balance and verify a journal file."`
	Balances BalancesCmd `cmd:"" help:"Show the account tree with subtree totals."`
	Gains    GainsCmd    `cmd:"" help:"Show realized capital gains and losses."`
	Export   ExportCmd   `cmd:"" help:"Write the journal back out with inferred amounts filled in."`
}
